package inbox

import (
	"testing"

	"github.com/nhle/taskflow/internal/model"
)

func TestParse_NoMarkerIsSuccessfulNonEvent(t *testing.T) {
	result, err := Parse(model.InboundMessage{
		Sender: "u1",
		Text:   "lunch at noon?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Triggered {
		t.Error("message without marker must not trigger")
	}
	if result.Reason == "" {
		t.Error("non-triggered outcome must carry a reason")
	}
	if result.Owner != "u1" {
		t.Errorf("owner = %q, want u1", result.Owner)
	}
}

func TestParse_TriggerVariants(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		title string
	}{
		{"plain", "#todo buy milk", "buy milk"},
		{"hyphen", "#to-do pay rent", "pay rent"},
		{"mixed case", "please #ToDo buy milk", "please  buy milk"},
		{"upper", "#TO-DO call mom", "call mom"},
		{"marker mid-text", "remember #todo water plants", "remember  water plants"},
		{"repeated marker", "#todo #todo double", "double"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Parse(model.InboundMessage{Sender: "u1", Text: tc.text})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Triggered {
				t.Fatalf("%q must trigger", tc.text)
			}
			if result.Title != tc.title {
				t.Errorf("title = %q, want %q", result.Title, tc.title)
			}
		})
	}
}

func TestParse_TitleCollapsesInnerMarkerGap(t *testing.T) {
	// Removing the marker leaves a double space in the middle; only the
	// outer edges are trimmed.
	result, err := Parse(model.InboundMessage{Sender: "u1", Text: "please #ToDo buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "please  buy milk" {
		t.Errorf("title = %q, want %q", result.Title, "please  buy milk")
	}
}

func TestParse_MarkerPrefixDoesNotTrigger(t *testing.T) {
	result, err := Parse(model.InboundMessage{Sender: "u1", Text: "check out #todoist"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Triggered {
		t.Error("#todoist must not trigger")
	}
}

func TestParse_MarkerOnlyIsClientError(t *testing.T) {
	for _, text := range []string{"#todo", "#to-do", " #ToDo  #todo "} {
		if _, err := Parse(model.InboundMessage{Sender: "u1", Text: text}); err == nil {
			t.Errorf("%q: marker-only message must fail", text)
		}
	}
}

func TestParse_MissingOwnerOrTextIsClientError(t *testing.T) {
	cases := []model.InboundMessage{
		{Text: "#todo something"},
		{Sender: "   ", Text: "#todo something"},
		{Sender: "u1"},
		{Sender: "u1", Text: "   "},
		{},
	}
	for _, msg := range cases {
		if _, err := Parse(msg); err == nil {
			t.Errorf("%+v: must fail validation", msg)
		}
	}
}

func TestParse_OwnerOverrideWins(t *testing.T) {
	result, err := Parse(model.InboundMessage{
		Sender:        "+15550001111",
		OwnerOverride: " alice ",
		Text:          "#todo ship it",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Owner != "alice" {
		t.Errorf("owner = %q, want alice", result.Owner)
	}
}

func TestParse_BlankOverrideFallsBackToSender(t *testing.T) {
	result, err := Parse(model.InboundMessage{
		Sender:        "bob",
		OwnerOverride: "   ",
		Text:          "#todo ship it",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Owner != "bob" {
		t.Errorf("owner = %q, want bob", result.Owner)
	}
}
