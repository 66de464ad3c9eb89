package audio

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestSamplesToWav_Header(t *testing.T) {
	samples := []int16{1, -1, 2, -2, 3, -3}
	data := samplesToWav(samples, 44100, 2)

	if len(data) != 44+len(samples)*2 {
		t.Fatalf("size: got %d, want %d", len(data), 44+len(samples)*2)
	}

	checks := []struct {
		name   string
		offset int
		got    uint32
		want   uint32
	}{
		{"riff size", 4, binary.LittleEndian.Uint32(data[4:]), uint32(36 + len(samples)*2)},
		{"sample rate", 24, binary.LittleEndian.Uint32(data[24:]), 44100},
		{"byte rate", 28, binary.LittleEndian.Uint32(data[28:]), 44100 * 4},
		{"data size", 40, binary.LittleEndian.Uint32(data[40:]), uint32(len(samples) * 2)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s at %d: got %d, want %d", c.name, c.offset, c.got, c.want)
		}
	}

	if ch := binary.LittleEndian.Uint16(data[22:]); ch != 2 {
		t.Errorf("channels: got %d, want 2", ch)
	}
	if s := int16(binary.LittleEndian.Uint16(data[46:])); s != -1 {
		t.Errorf("second sample: got %d, want -1", s)
	}
}

func TestPCMDuration(t *testing.T) {
	if d := pcmDuration(44100*2, 44100, 2); d != time.Second {
		t.Errorf("got %v, want 1s", d)
	}
	if d := pcmDuration(100, 0, 2); d != 0 {
		t.Errorf("zero rate: got %v, want 0", d)
	}
}
