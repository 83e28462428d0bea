package cli

import (
	"testing"

	"github.com/Kavirubc/findora/internal/config"
)

func TestResolveRankParams(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantThreshold float64
		wantTopK      int
	}{
		{
			name:          "unset flags fall back to config",
			args:          nil,
			wantThreshold: 0.6,
			wantTopK:      5,
		},
		{
			name:          "explicit zero threshold kept",
			args:          []string{"--threshold", "0"},
			wantThreshold: 0,
			wantTopK:      5,
		},
		{
			name:          "explicit values kept",
			args:          []string{"--threshold", "0.9", "--top-k", "2"},
			wantThreshold: 0.9,
			wantTopK:      2,
		},
	}

	m := &config.MatchingConfig{MatchThreshold: 0.6, TopK: 5}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newMatchCmd()
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatalf("Parse(%v) error = %v", tt.args, err)
			}

			threshold, err := cmd.Flags().GetFloat64("threshold")
			if err != nil {
				t.Fatalf("GetFloat64() error = %v", err)
			}
			topK, err := cmd.Flags().GetInt("top-k")
			if err != nil {
				t.Fatalf("GetInt() error = %v", err)
			}

			gotThreshold, gotTopK := resolveRankParams(cmd, threshold, topK, m)
			if gotThreshold != tt.wantThreshold {
				t.Errorf("threshold = %v, want %v", gotThreshold, tt.wantThreshold)
			}
			if gotTopK != tt.wantTopK {
				t.Errorf("topK = %d, want %d", gotTopK, tt.wantTopK)
			}
		})
	}
}
