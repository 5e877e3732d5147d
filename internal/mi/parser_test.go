package mi

import (
	"reflect"
	"testing"
)

func parseOne(t *testing.T, s string) Record {
	t.Helper()
	p := NewParser(func(err error) { t.Fatalf("parse error: %v", err) })
	recs := p.Feed([]byte(s + "\n"))
	if len(recs) != 1 {
		t.Fatalf("expected exactly 1 record from %q, got %d", s, len(recs))
	}
	return recs[0]
}

func TestParsePrompt(t *testing.T) {
	rec := parseOne(t, "(gdb)")
	if rec.Kind != KindPrompt {
		t.Fatalf("expected prompt, got %v", rec.Kind)
	}
}

func TestParseResultRecordWithToken(t *testing.T) {
	rec := parseOne(t, `42^done,value="1"`)
	if rec.Kind != KindResult || !rec.HasToken || rec.Token != 42 || rec.Class != ClassDone {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if got := rec.Data.FieldString("value"); got != "1" {
		t.Fatalf("value = %q, want 1", got)
	}
}

func TestParseErrorResult(t *testing.T) {
	rec := parseOne(t, `7^error,msg="No symbol table loaded."`)
	if rec.Class != ClassError {
		t.Fatalf("class = %v, want error", rec.Class)
	}
	if rec.Msg() != "No symbol table loaded." {
		t.Fatalf("msg = %q", rec.Msg())
	}
}

func TestParseAsyncExecStopped(t *testing.T) {
	rec := parseOne(t, `*stopped,reason="breakpoint-hit",bkptno="1",frame={addr="0x08048564",func="main",args=[]}`)
	if rec.Kind != KindExecAsync || rec.AsyncClass != "stopped" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	frame, ok := rec.Data.Field("frame")
	if !ok || frame.Kind != ValueTuple {
		t.Fatalf("missing frame tuple: %+v", rec.Data)
	}
	if frame.FieldString("func") != "main" {
		t.Fatalf("func = %q", frame.FieldString("func"))
	}
}

func TestParseNotifyAsync(t *testing.T) {
	rec := parseOne(t, `=thread-created,id="1",group-id="i1"`)
	if rec.Kind != KindNotifyAsync || rec.AsyncClass != "thread-created" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestParseStreamRecords(t *testing.T) {
	for _, tc := range []struct {
		line string
		kind Kind
		text string
	}{
		{`~"Reading symbols...\n"`, KindConsoleStream, "Reading symbols...\n"},
		{`@"program output\n"`, KindTargetStream, "program output\n"},
		{`&"No symbol table\n"`, KindLogStream, "No symbol table\n"},
	} {
		rec := parseOne(t, tc.line)
		if rec.Kind != tc.kind || rec.Text != tc.text {
			t.Fatalf("%q: got kind=%v text=%q", tc.line, rec.Kind, rec.Text)
		}
	}
}

func TestCStringEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"a\"b"`, `a"b`},
		{`"a\n"`, "a\n"},
		{`"a\\b"`, `a\b`},
		{`"tab\there"`, "tab\there"},
		{`"hex\x41"`, "hexA"},
	}
	for _, c := range cases {
		rec := parseOne(t, `^done,value=`+c.in)
		if got := rec.Data.FieldString("value"); got != c.want {
			t.Fatalf("%s: got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseTupleAndList(t *testing.T) {
	rec := parseOne(t, `^done,bkpt={number="1",enabled="y"},locations=[{number="1.1"},{number="1.2"}]`)
	bkpt, _ := rec.Data.Field("bkpt")
	if bkpt.Kind != ValueTuple || bkpt.FieldString("number") != "1" {
		t.Fatalf("bkpt: %+v", bkpt)
	}
	locs, _ := rec.Data.Field("locations")
	if locs.Kind != ValueList || len(locs.Items()) != 2 {
		t.Fatalf("locations: %+v", locs)
	}
	if locs.Items()[1].FieldString("number") != "1.2" {
		t.Fatalf("locations[1]: %+v", locs.Items()[1])
	}
}

func TestParseNamedResultList(t *testing.T) {
	rec := parseOne(t, `^done,thread-groups=[id="i1"]`)
	tg, _ := rec.Data.Field("thread-groups")
	if tg.Kind != ValueList || len(tg.ListNames) != 1 || tg.ListNames[0] != "id" {
		t.Fatalf("thread-groups: %+v", tg)
	}
}

func TestParseEmptyList(t *testing.T) {
	rec := parseOne(t, `^done,args=[]`)
	args, _ := rec.Data.Field("args")
	if args.Kind != ValueList || len(args.Items()) != 0 {
		t.Fatalf("args: %+v", args)
	}
}

func TestFeedAcrossChunkBoundaries(t *testing.T) {
	full := `42^done,value="split value"` + "\n"
	for cut := 1; cut < len(full); cut++ {
		p := NewParser(func(err error) { t.Fatalf("parse error: %v", err) })
		var got []Record
		got = append(got, p.Feed([]byte(full[:cut]))...)
		got = append(got, p.Feed([]byte(full[cut:]))...)
		if len(got) != 1 {
			t.Fatalf("cut=%d: expected 1 record, got %d", cut, len(got))
		}
		rec := got[0]
		if rec.Token != 42 || rec.Data.FieldString("value") != "split value" {
			t.Fatalf("cut=%d: unexpected record %+v", cut, rec)
		}
	}
}

func TestParseMalformedBatchRecoversAtPrompt(t *testing.T) {
	var errs []error
	p := NewParser(func(err error) { errs = append(errs, err) })
	recs := p.Feed([]byte("^done,bad={unterminated\n(gdb)\n99^done\n"))
	if len(errs) != 1 {
		t.Fatalf("expected 1 recorded parse error, got %d: %v", len(errs), errs)
	}
	if len(recs) != 2 {
		t.Fatalf("expected prompt + next result after recovery, got %d: %+v", len(recs), recs)
	}
	if recs[0].Kind != KindPrompt {
		t.Fatalf("first recovered record should be prompt, got %v", recs[0].Kind)
	}
	if recs[1].Token != 99 {
		t.Fatalf("second record should be next good result, got %+v", recs[1])
	}
}

func TestValueFieldAbsent(t *testing.T) {
	rec := parseOne(t, `^done,value="1"`)
	if _, ok := rec.Data.Field("missing"); ok {
		t.Fatalf("Field(missing) should not be ok")
	}
	if !reflect.DeepEqual(rec.Data.Items(), []Value(nil)) {
		t.Fatalf("Items() on a tuple should be nil")
	}
}
