package cmd

import "testing"

func TestCommandUseStrings(t *testing.T) {
	tests := []struct {
		name    string
		use     string
		wantUse string
	}{
		{"run", runCmd.Use, "run"},
		{"list", listCmd.Use, "list"},
		{"doctor", doctorCmd.Use, "doctor"},
		{"status", statusCmd.Use, "status"},
		{"log", logCmd.Use, "log"},
		{"show", showCmd.Use, "show"},
		{"batch", batchCmd.Use, "batch"},
		{"tag", tagCmd.Use, "tag [name]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.use != tt.wantUse {
				t.Errorf("%s.Use = %q, want %q", tt.name, tt.use, tt.wantUse)
			}
		})
	}
}

func TestBatchSubcommandsRegistered(t *testing.T) {
	if batchCmd.Commands() == nil {
		t.Fatal("batchCmd has no subcommands")
	}
	var names []string
	for _, c := range batchCmd.Commands() {
		names = append(names, c.Name())
	}
	want := map[string]bool{"submit": false, "status": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("batch subcommand %q not registered", name)
		}
	}
}

func TestTagCommandFlags(t *testing.T) {
	tests := []struct {
		flagName  string
		shorthand string
	}{
		{"run", ""},
		{"list", "l"},
		{"delete", "d"},
	}

	for _, tt := range tests {
		flag := tagCmd.Flags().Lookup(tt.flagName)
		if flag == nil {
			t.Errorf("tag flag %q not found", tt.flagName)
			continue
		}
		if flag.Shorthand != tt.shorthand {
			t.Errorf("tag flag %q shorthand = %q, want %q", tt.flagName, flag.Shorthand, tt.shorthand)
		}
	}
}

func TestRunCommandFlags(t *testing.T) {
	if runCmd.Flags().Lookup("csv") == nil {
		t.Error("run command missing --csv flag")
	}
	if runCmd.Flags().Lookup("tag") == nil {
		t.Error("run command missing --tag flag")
	}
}

func TestRootCommandHasAllSubcommands(t *testing.T) {
	want := []string{"run", "list", "doctor", "status", "log", "show", "batch", "tag"}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("rootCmd missing subcommand %q", name)
		}
	}
}
