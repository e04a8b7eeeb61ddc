package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize int
		wantSize   int
	}{
		{"default bucket size for zero", 0, 5},
		{"default bucket size for negative", -1, 5},
		{"custom bucket size", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "decode") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
}

func TestProgressSampler_Buckets(t *testing.T) {
	s := NewProgressSampler(5)

	if !s.ShouldLog(0, "decode") {
		t.Error("first sample should log")
	}
	if s.ShouldLog(3, "decode") {
		t.Error("same bucket should not log")
	}
	if !s.ShouldLog(5, "decode") {
		t.Error("new bucket should log")
	}
	if s.ShouldLog(4, "decode") {
		t.Error("going backwards should not log")
	}
	if !s.ShouldLog(150, "decode") {
		t.Error("clamped 100 should log")
	}
	if s.ShouldLog(100, "decode") {
		t.Error("repeated 100 should not log")
	}
}

func TestProgressSampler_StageChange(t *testing.T) {
	s := NewProgressSampler(5)
	s.ShouldLog(50, "decode")
	if !s.ShouldLog(10, "remap") {
		t.Error("stage change should log")
	}
	if s.lastBucket != 2 {
		t.Errorf("lastBucket = %d, want bucket restarted at 2", s.lastBucket)
	}
	if !s.ShouldLog(-1, "decode") {
		t.Error("returning to an earlier stage should log")
	}
}
