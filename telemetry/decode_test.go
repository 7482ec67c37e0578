package telemetry

import (
	"errors"
	"testing"

	"soildrill/protocol"
)

func TestDecoderStripsFormats(t *testing.T) {
	dec := NewDecoder(map[string]int{
		"drill_outcome cycle=%u outcome=%c": 7,
		"plain":                             8,
	})

	tests := []struct {
		id   uint16
		name string
		ok   bool
	}{
		{7, DrillOutcome, true},
		{8, "plain", true},
		{9, "", false},
	}
	for _, tt := range tests {
		name, ok := dec.Name(tt.id)
		if name != tt.name || ok != tt.ok {
			t.Errorf("Name(%d): expected %q/%v, got %q/%v", tt.id, tt.name, tt.ok, name, ok)
		}
	}
}

func TestDecoderErrors(t *testing.T) {
	dec := NewDecoder(map[string]int{DrillOutcome: 7, IdentifyResponse: 0})

	if _, err := dec.Decode(protocol.Message{ID: 30}); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("Expected ErrUnknownMessage, got %v", err)
	}
	if _, err := dec.Decode(protocol.Message{ID: 7, Args: []byte{1}}); err == nil {
		t.Error("Expected an error for truncated arguments")
	}

	u, err := dec.Decode(protocol.Message{ID: 0, Args: []byte{0, 0}})
	if err != nil {
		t.Fatalf("Expected identify_response to pass through, got %v", err)
	}
	if u.Name != IdentifyResponse || u.Event != nil || u.Status != nil || u.Ring != nil {
		t.Errorf("Expected name-only update, got %+v", u)
	}
}
