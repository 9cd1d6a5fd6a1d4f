package rules

import (
	"strings"
	"testing"
)

func TestRemoveRecursiveForce(t *testing.T) {
	a := newTestAnalyzer(t)
	tests := []struct {
		name       string
		command    string
		ctx        Context
		blocked    bool
		wantReason string
	}{
		{"root", "rm -rf /", Context{}, true, "rm -rf"},
		{"home dir", "rm -rf ~/project", Context{}, true, "rm -rf"},
		{"home var", "rm -rf $HOME/project", Context{}, true, "rm -rf"},
		{"absolute project path", "rm -rf /srv/data", Context{}, true, "rm -rf"},
		{"flags reversed", "rm -fr /srv/data", Context{}, true, "rm -rf"},
		{"flags separate", "rm -r -f /srv/data", Context{}, true, "rm -rf"},
		{"long flags", "rm --recursive --force /srv/data", Context{}, true, "rm -rf"},
		{"tmp zone root itself", "rm -rf /tmp", Context{}, true, "rm -rf"},
		{"tmp sibling", "rm -rf /tmpfoo", Context{}, true, "rm -rf"},
		{"dotdot escape from tmp", "rm -rf /tmp/../etc", Context{}, true, "rm -rf"},
		{"mixed safe and unsafe targets", "rm -rf /tmp/build /srv/data", Context{}, true, "rm -rf"},
		{"busybox applet", "busybox rm -rf /srv/data", Context{}, true, "rm -rf"},
		{"command substitution", "echo $(rm -rf /srv/data)", Context{}, true, "rm -rf"},
		{"find exec", `find . -name '*.o' -exec rm -rf {} \;`, Context{Cwd: "/home/u", CwdKnown: true}, true, "rm -rf"},

		{"tmp subpath", "rm -rf /tmp/build", Context{}, false, ""},
		{"var tmp subpath", "rm -rf /var/tmp/cache", Context{}, false, ""},
		{"dev shm subpath", "rm -rf /dev/shm/scratch", Context{}, false, ""},
		{"tmpdir var subpath", "rm -rf $TMPDIR/build", Context{}, false, ""},
		{"recursive only", "rm -r ./build", Context{Cwd: "/home/u", CwdKnown: true}, false, ""},
		{"force only", "rm -f stale.lock", Context{Cwd: "/home/u", CwdKnown: true}, false, ""},
		{"no flags", "rm file.txt", Context{}, false, ""},
		{"no targets", "rm -rf", Context{}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkVerdict(t, a.AnalyzeCommand(tt.command, tt.ctx), tt.blocked, tt.wantReason)
		})
	}
}

func TestRemoveTmpdirRedefinition(t *testing.T) {
	a := newTestAnalyzer(t)

	// Normally $TMPDIR targets are tolerated, but not when the same segment
	// redefines TMPDIR.
	checkVerdict(t, a.AnalyzeCommand("rm -rf $TMPDIR/build", Context{}), false, "")
	checkVerdict(t, a.AnalyzeCommand("TMPDIR=/ rm -rf $TMPDIR/build", Context{}), true, "rm -rf")
	checkVerdict(t, a.AnalyzeCommand("rm -rf $TMPDIR", Context{}), true, "rm -rf")
}

func TestRemoveRelativeTargets(t *testing.T) {
	a := newTestAnalyzer(t)

	// A relative target against a known temp cwd is tolerated.
	checkVerdict(t, a.AnalyzeCommand("rm -rf build", Context{Cwd: "/tmp/work", CwdKnown: true}), false, "")

	// The same target against a non-temp cwd is not.
	checkVerdict(t, a.AnalyzeCommand("rm -rf build", Context{Cwd: "/home/u", CwdKnown: true}), true, "rm -rf")

	// With no cwd at all the target cannot be verified.
	v := a.AnalyzeCommand("rm -rf build", Context{})
	checkVerdict(t, v, true, "cannot be verified")
}

func TestRemoveAfterDirectoryChange(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := Context{Cwd: "/tmp/work", CwdKnown: true}

	// The cwd is only trustworthy until a segment changes directory; after
	// that a relative delete cannot be resolved.
	checkVerdict(t, a.AnalyzeCommand("ls && rm -rf build", ctx), false, "")
	checkVerdict(t, a.AnalyzeCommand("cd /srv && rm -rf build", ctx), true, "cannot be verified")
	checkVerdict(t, a.AnalyzeCommand("pushd /srv && rm -rf build", ctx), true, "cannot be verified")
}

func TestRemoveStrictMode(t *testing.T) {
	a := newTestAnalyzer(t)
	strict := Context{Strict: true}

	tests := []struct {
		name    string
		command string
		ctx     Context
		blocked bool
	}{
		{"tmpdir var denied", "rm -rf $TMPDIR/build", strict, true},
		{"glob under tmp denied", "rm -rf /tmp/cache-*", strict, true},
		{"relative under temp cwd denied", "rm -rf build", Context{Cwd: "/tmp/work", CwdKnown: true, Strict: true}, true},
		{"literal tmp subpath still fine", "rm -rf /tmp/build", strict, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := a.AnalyzeCommand(tt.command, tt.ctx)
			checkVerdict(t, v, tt.blocked, "rm -rf")
			if tt.blocked && !strings.Contains(v.Reason, "strict mode") {
				t.Errorf("Reason = %q, want strict mode marker", v.Reason)
			}
		})
	}
}

func TestParseRemoveArgs(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		recursive     bool
		force         bool
		wantedTargets []string
	}{
		{"combined", []string{"-rf", "/x"}, true, true, []string{"/x"}},
		{"combined reversed", []string{"-fr", "/x"}, true, true, []string{"/x"}},
		{"capital R", []string{"-Rf", "/x"}, true, true, []string{"/x"}},
		{"separate", []string{"-r", "-f", "a", "b"}, true, true, []string{"a", "b"}},
		{"long form", []string{"--recursive", "--force", "/x"}, true, true, []string{"/x"}},
		{"interleaved flags", []string{"-r", "a", "-f", "b"}, true, true, []string{"a", "b"}},
		{"double dash targets", []string{"-rf", "--", "-weird"}, true, true, []string{"-weird"}},
		{"inert long option", []string{"-rf", "--verbose", "/x"}, true, true, []string{"/x"}},
		{"force only", []string{"-f", "a"}, false, true, []string{"a"}},
		{"nothing", nil, false, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recursive, force, targets := parseRemoveArgs(tt.args)
			if recursive != tt.recursive || force != tt.force {
				t.Errorf("flags = (%v, %v), want (%v, %v)", recursive, force, tt.recursive, tt.force)
			}
			if len(targets) != len(tt.wantedTargets) {
				t.Fatalf("targets = %v, want %v", targets, tt.wantedTargets)
			}
			for i := range targets {
				if targets[i] != tt.wantedTargets[i] {
					t.Errorf("target[%d] = %q, want %q", i, targets[i], tt.wantedTargets[i])
				}
			}
		})
	}
}

func TestExtraSafeDeletePrefixes(t *testing.T) {
	a, err := NewAnalyzer(Options{ExtraSafeDeletePrefixes: []string{"/scratch"}})
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	checkVerdict(t, a.AnalyzeCommand("rm -rf /scratch/job1", Context{}), false, "")
	checkVerdict(t, a.AnalyzeCommand("rm -rf /scratch", Context{}), true, "rm -rf")
}
