package util_test

import (
	"testing"

	"github.com/vrsandeep/koma-go/internal/util"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name     string
		v1       string
		v2       string
		expected int
		wantErr  bool
	}{
		{"Equal versions", "1.0.0", "1.0.0", 0, false},
		{"v1 less than v2", "1.0.0", "1.0.1", -1, false},
		{"v1 greater than v2", "1.0.1", "1.0.0", 1, false},
		{"Pre-release vs release", "1.0.0-alpha", "1.0.0", -1, false},
		{"Invalid version v1", "invalid", "1.0.0", 0, true},
		{"Version with leading v", "v1.0.0", "1.0.0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := util.CompareVersions(tt.v1, tt.v2)
			if (err != nil) != tt.wantErr {
				t.Errorf("CompareVersions() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && result != tt.expected {
				t.Errorf("CompareVersions() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSatisfiesMinimum(t *testing.T) {
	ok, err := util.SatisfiesMinimum("v0.3.0", "0.2.9")
	if err != nil || !ok {
		t.Errorf("SatisfiesMinimum(0.3.0, 0.2.9) = %v, %v", ok, err)
	}
	ok, err = util.SatisfiesMinimum("0.3.0", "1.0.0")
	if err != nil || ok {
		t.Errorf("SatisfiesMinimum(0.3.0, 1.0.0) = %v, %v", ok, err)
	}
	if _, err := util.SatisfiesMinimum("dev", "1.0.0"); err == nil {
		t.Error("SatisfiesMinimum expected an error for an invalid version")
	}
	if util.IsValidVersion("dev") || !util.IsValidVersion("v1.2.3") {
		t.Error("IsValidVersion returned unexpected results")
	}
}
