package conversion

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		upload       Upload
		wantAccepted bool
		wantReason   string
	}{
		{
			name:         "valid mp4",
			upload:       Upload{Name: "a.mp4", Size: 5 * 1024 * 1024},
			wantAccepted: true,
		},
		{
			name:         "uppercase extension",
			upload:       Upload{Name: "CLIP.MP4", Size: 1},
			wantAccepted: true,
		},
		{
			name:         "exactly at size limit",
			upload:       Upload{Name: "big.mp4", Size: MaxUploadBytes},
			wantAccepted: true,
		},
		{
			name:       "wrong extension",
			upload:     Upload{Name: "movie.avi", Size: 10},
			wantReason: "'movie.avi' is not a .mp4 file",
		},
		{
			name:       "extension only in the middle",
			upload:     Upload{Name: "movie.mp4.txt", Size: 10},
			wantReason: "'movie.mp4.txt' is not a .mp4 file",
		},
		{
			name:       "empty file",
			upload:     Upload{Name: "b.mp4", Size: 0},
			wantReason: "file is empty",
		},
		{
			name:       "negative size",
			upload:     Upload{Name: "b.mp4", Size: -1},
			wantReason: "file is empty",
		},
		{
			name:       "over size limit",
			upload:     Upload{Name: "c.mp4", Size: 600 * 1024 * 1024},
			wantReason: "file exceeds size limit",
		},
		{
			name:       "extension checked before size",
			upload:     Upload{Name: "empty.mov", Size: 0},
			wantReason: "'empty.mov' is not a .mp4 file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.upload)

			if got.Accepted != tt.wantAccepted {
				t.Errorf("Validate() Accepted = %v, want %v", got.Accepted, tt.wantAccepted)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Validate() Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestValidate_IsDeterministic(t *testing.T) {
	uploads := []Upload{
		{Name: "a.mp4", Size: 1},
		{Name: "b.mp4", Size: 0},
		{Name: "c.txt", Size: 1},
	}

	for _, u := range uploads {
		first := Validate(u)
		for i := 0; i < 3; i++ {
			if got := Validate(u); got != first {
				t.Errorf("Validate(%q) = %+v on repeat, want %+v", u.Name, got, first)
			}
		}
	}
}

func TestValidate_DoesNotOpenContent(t *testing.T) {
	u := Upload{
		Name: "a.mp4",
		Size: 10,
		Open: nil, // would panic if called
	}

	if v := Validate(u); !v.Accepted {
		t.Errorf("Validate() rejected %q: %s", u.Name, v.Reason)
	}
}

func TestPartition(t *testing.T) {
	uploads := []Upload{
		{Name: "a.mp4", Size: 5 * 1024 * 1024},
		{Name: "b.mp4", Size: 0},
		{Name: "c.mp4", Size: 600 * 1024 * 1024},
		{Name: "d.mp4", Size: 42},
		{Name: "e.wav", Size: 42},
	}

	accepted, rejected := Partition(uploads)

	var acceptedNames []string
	for _, u := range accepted {
		acceptedNames = append(acceptedNames, u.Name)
	}
	if got := strings.Join(acceptedNames, ","); got != "a.mp4,d.mp4" {
		t.Errorf("Partition() accepted = %s, want a.mp4,d.mp4", got)
	}

	wantRejected := []Rejection{
		{Name: "b.mp4", Reason: "file is empty"},
		{Name: "c.mp4", Reason: "file exceeds size limit"},
		{Name: "e.wav", Reason: "'e.wav' is not a .mp4 file"},
	}
	if len(rejected) != len(wantRejected) {
		t.Fatalf("Partition() rejected %d items, want %d", len(rejected), len(wantRejected))
	}
	for i, want := range wantRejected {
		if rejected[i] != want {
			t.Errorf("Partition() rejected[%d] = %+v, want %+v", i, rejected[i], want)
		}
	}
}

func TestPartition_Empty(t *testing.T) {
	accepted, rejected := Partition(nil)
	if len(accepted) != 0 || len(rejected) != 0 {
		t.Errorf("Partition(nil) = %d accepted, %d rejected, want none", len(accepted), len(rejected))
	}
}
