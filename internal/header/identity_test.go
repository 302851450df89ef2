package header

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestResolveIdentity(t *testing.T) {
	type testCase struct {
		Session      *Session
		Record       *Record
		ExpectSource Source
		ExpectName   string
	}

	testCases := []testCase{
		{
			ExpectSource: SourceNone,
			ExpectName:   "",
		},
		{
			Session:      &Session{Name: "Jane Doe"},
			ExpectSource: SourceSession,
			ExpectName:   "Jane",
		},
		{
			Session:      &Session{Name: "  Jane   Doe "},
			ExpectSource: SourceSession,
			ExpectName:   "Jane",
		},
		{
			Record:       &Record{FirstName: "Sam"},
			ExpectSource: SourceManual,
			ExpectName:   "Sam",
		},
		{
			Session:      &Session{Name: "Jane Doe"},
			Record:       &Record{FirstName: "Sam"},
			ExpectSource: SourceSession,
			ExpectName:   "Jane",
		},
		{
			Session:      &Session{},
			Record:       &Record{FirstName: "Sam"},
			ExpectSource: SourceSession,
			ExpectName:   "Sam",
		},
		{
			Record:       &Record{},
			ExpectSource: SourceManual,
			ExpectName:   "",
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			identity := ResolveIdentity(tc.Session, tc.Record)

			source := SourceNone
			if identity != nil {
				source = identity.Source()
			}

			if e, g := tc.ExpectSource, source; e != g {
				t.Errorf("identity.Source(): expected '%v', got '%v'", e, g)
			}

			if e, g := tc.ExpectName, DisplayName(tc.Session, tc.Record); e != g {
				t.Errorf("DisplayName(): expected '%v', got '%v'", e, g)
			}
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	type testCase struct {
		Raw             string
		ExpectMalformed bool
		ExpectFirstName string
	}

	testCases := []testCase{
		{Raw: `{"firstName":"Sam"}`, ExpectFirstName: "Sam"},
		{Raw: ` {"firstName":"Sam","lastName":"Smith"} `, ExpectFirstName: "Sam"},
		{Raw: `{"firstName":""}`, ExpectFirstName: ""},
		{Raw: ``, ExpectMalformed: true},
		{Raw: `null`, ExpectMalformed: true},
		{Raw: `[]`, ExpectMalformed: true},
		{Raw: `{}`, ExpectMalformed: true},
		{Raw: `{"firstName":42}`, ExpectMalformed: true},
		{Raw: `{"firstName":"Sam"`, ExpectMalformed: true},
		{Raw: `%7B%22firstName%22%3A%22Sam%22%7D`, ExpectMalformed: true},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			record, err := DecodeRecord(tc.Raw)

			if tc.ExpectMalformed {
				if !errors.Is(err, ErrMalformedRecord) {
					t.Fatalf("DecodeRecord(%q): expected ErrMalformedRecord, got '%v'", tc.Raw, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.ExpectFirstName, record.FirstName; e != g {
				t.Errorf("record.FirstName: expected '%v', got '%v'", e, g)
			}
		})
	}
}

func TestEncodeRecord(t *testing.T) {
	raw, err := EncodeRecord(Record{FirstName: "Sam"})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := `{"firstName":"Sam"}`, raw; e != g {
		t.Errorf("EncodeRecord(): expected '%v', got '%v'", e, g)
	}
}

func TestDialogStateNext(t *testing.T) {
	type testCase struct {
		From   DialogState
		Event  DialogEvent
		Expect DialogState
	}

	testCases := []testCase{
		{From: DialogClosed, Event: DialogEventRequest, Expect: DialogOpen},
		{From: DialogOpen, Event: DialogEventRequest, Expect: DialogOpen},
		{From: DialogOpen, Event: DialogEventCancel, Expect: DialogClosed},
		{From: DialogOpen, Event: DialogEventConfirm, Expect: DialogClosed},
		{From: DialogClosed, Event: DialogEventCancel, Expect: DialogClosed},
		{From: DialogOpen, Event: DialogEvent(99), Expect: DialogOpen},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			if e, g := tc.Expect, tc.From.Next(tc.Event); e != g {
				t.Errorf("%v.Next(%v): expected '%v', got '%v'", tc.From, tc.Event, e, g)
			}
		})
	}
}
