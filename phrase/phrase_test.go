package phrase

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		spacer bool
		want   []string
	}{
		{
			name: "words",
			text: "This is a test",
			want: []string{"This", "is", "a", "test"},
		},
		{
			name: "punctuation without spacer",
			text: "Hello, world.",
			want: []string{"Hello", ",", "world", "."},
		},
		{
			name:   "punctuation with spacer",
			text:   "Hello, world.",
			spacer: true,
			want:   []string{"Hello", " ,", "world", " ."},
		},
		{
			name:   "word after punctuation",
			text:   "a,b",
			spacer: true,
			want:   []string{"a", " ,", " ", "b"},
		},
		{
			name:   "leading punctuation",
			text:   "(hi)",
			spacer: true,
			want:   []string{"(", " ", "hi", " )"},
		},
		{
			name: "empty",
			text: "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text, tt.spacer)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Tokenize(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestJoinInvertsTokenize(t *testing.T) {
	for _, text := range []string{
		"This is a test.",
		"Hello, world!",
		"a,b",
		"(hi) there",
		"What's up?",
	} {
		if got := Join(Tokenize(text, true)); got != text {
			t.Errorf("Join(Tokenize(%q)) = %q", text, got)
		}
	}
}

func TestPhraseAt(t *testing.T) {
	p := FromTokens([]string{"a", "quick", "test"})

	if tok, ok := p.At(1); !ok || tok != "quick" {
		t.Fatalf("At(1) = %q, %v", tok, ok)
	}
	if _, ok := p.At(p.End()); ok {
		t.Fatal("At(End()) should be none")
	}
	if _, ok := p.At(-1); ok {
		t.Fatal("At(-1) should be none")
	}
	if p.End() != 3 {
		t.Fatalf("End() = %d", p.End())
	}
}

func TestPointer(t *testing.T) {
	p := Pointer(2)
	q := p.Furthered(3)
	if p != 2 || q != 5 {
		t.Fatalf("p = %d, q = %d", p, q)
	}
	if q != Pointer(5) {
		t.Fatal("pointers with equal offsets should be equal")
	}
}

func TestFromTokensCopies(t *testing.T) {
	toks := []string{"a", "b"}
	p := FromTokens(toks)
	toks[0] = "z"
	if tok, _ := p.At(0); tok != "a" {
		t.Fatalf("phrase changed with its input: %q", tok)
	}
	got := p.Tokens()
	got[1] = "z"
	if tok, _ := p.At(1); tok != "b" {
		t.Fatalf("phrase changed with its output: %q", tok)
	}
}

func TestGroupAndBranches(t *testing.T) {
	g := Group(NewPhrase("Hi there."), NewPhrase("Bye."))
	if n := g.BranchCount(); n != 2 {
		t.Fatalf("BranchCount() = %d", n)
	}
	if g.Len() != 5 {
		t.Fatalf("Len() = %d", g.Len())
	}
	bs := g.Branches()
	if diff := cmp.Diff([]string{"Bye", " ."}, bs[1].Tokens()); diff != "" {
		t.Fatal(diff)
	}

	// Groups of groups flatten.
	gg := Group(g, NewPhrase("Again"))
	if n := gg.BranchCount(); n != 3 {
		t.Fatalf("BranchCount() = %d", n)
	}
}

func TestSlice(t *testing.T) {
	p := FromTokens([]string{"a", "b", "c"})
	if diff := cmp.Diff([]string{"b", "c"}, p.Slice(1, 10)); diff != "" {
		t.Fatal(diff)
	}
	if got := p.Slice(2, 1); got != nil {
		t.Fatalf("Slice(2,1) = %v", got)
	}
}

func TestSentenceParser(t *testing.T) {
	p, err := (&SentenceParser{}).Parse("Hello there. How are you?! Fine")
	if err != nil {
		t.Fatal(err)
	}
	bs := p.Branches()
	if len(bs) != 3 {
		t.Fatalf("got %d branches: %s", len(bs), p)
	}
	if got := bs[1].Text(); got != "How are you?!" {
		t.Fatalf("second branch %q", got)
	}
	if got := bs[2].Text(); got != "Fine" {
		t.Fatalf("third branch %q", got)
	}

	if _, err := (&SentenceParser{}).Parse(" "); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
