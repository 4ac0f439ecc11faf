package cmd

import "testing"

func TestTypeListParsing(t *testing.T) {
	tests := []struct {
		name string
		sets []string
		want string
	}{
		{
			name: "comma separated",
			sets: []string{"text/plain,text/html"},
			want: "text/plain,text/html",
		},
		{
			name: "repeated flag",
			sets: []string{"text/plain", "application/json"},
			want: "text/plain,application/json",
		},
		{
			name: "trims and skips empties",
			sets: []string{" text/plain , ,"},
			want: "text/plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tl typeList
			for _, s := range tt.sets {
				if err := tl.Set(s); err != nil {
					t.Fatalf("Set(%q) error = %v", s, err)
				}
			}
			if got := tl.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBoardFlags(t *testing.T) {
	for _, name := range []string{"accept", "mouse", "debug"} {
		if boardCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to be defined", name)
		}
	}
}
