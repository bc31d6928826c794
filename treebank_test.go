package treebank

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/jamesainslie/go-treebank/conllu"
	"github.com/jamesainslie/go-treebank/tagger"
)

// row builds a token line with the given id, form, head and relation.
func row(id, form, head, deprel string) string {
	return strings.Join([]string{id, form, "_", "_", "_", "_", head, deprel, "_", "_"}, "\t")
}

func mustParse(t *testing.T, text string) *conllu.Document {
	t.Helper()
	doc, err := conllu.Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

// numbered returns a document of n one-token sentences tagged with their
// index in a sent_id comment.
func numbered(n int) *conllu.Document {
	doc := &conllu.Document{}
	for i := 0; i < n; i++ {
		doc.Sentences = append(doc.Sentences, conllu.Sentence{
			Comments: []string{fmt.Sprintf("# sent_id = %d", i)},
			Tokens: []conllu.Token{{
				ID: "1", Form: "w", Lemma: "_", UPOS: "_", XPOS: "_",
				Feats: "_", Head: "0", Deprel: "root", Deps: "_", Misc: "_",
			}},
		})
	}
	return doc
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name                        string
		total                       int
		train, dev                  float64
		wantTrain, wantDev, wantTest int
	}{
		{name: "default fractions", total: 100, train: 0.70, dev: 0.15, wantTrain: 70, wantDev: 15, wantTest: 15},
		{name: "floors counts", total: 7, train: 0.70, dev: 0.15, wantTrain: 4, wantDev: 1, wantTest: 2},
		{name: "single sentence", total: 1, train: 0.70, dev: 0.15, wantTrain: 0, wantDev: 0, wantTest: 1},
		{name: "all train", total: 5, train: 1, dev: 0, wantTrain: 5, wantDev: 0, wantTest: 0},
		{name: "no train", total: 4, train: 0, dev: 0.5, wantTrain: 0, wantDev: 2, wantTest: 2},
		{name: "empty document", total: 0, train: 0.70, dev: 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := numbered(tt.total)
			train, dev, test := Split(doc, tt.train, tt.dev)

			if train.Len() != tt.wantTrain || dev.Len() != tt.wantDev || test.Len() != tt.wantTest {
				t.Fatalf("Split() sizes = %d/%d/%d, want %d/%d/%d",
					train.Len(), dev.Len(), test.Len(), tt.wantTrain, tt.wantDev, tt.wantTest)
			}

			var joined []conllu.Sentence
			joined = append(joined, train.Sentences...)
			joined = append(joined, dev.Sentences...)
			joined = append(joined, test.Sentences...)
			if len(joined) != doc.Len() {
				t.Fatalf("split holds %d sentences, want %d", len(joined), doc.Len())
			}
			for i := range joined {
				if !reflect.DeepEqual(joined[i], doc.Sentences[i]) {
					t.Errorf("sentence %d = %+v, want %+v", i, joined[i], doc.Sentences[i])
				}
			}
		})
	}
}

func TestSplit_DoesNotShare(t *testing.T) {
	doc := numbered(3)
	train, _, _ := Split(doc, 1, 0)

	train.Sentences[0].Tokens[0].Head = "9"
	train.Sentences[0].Comments[0] = "# changed"

	if doc.Sentences[0].Tokens[0].Head != "0" || doc.Sentences[0].Comments[0] != "# sent_id = 0" {
		t.Error("split output shares memory with its input")
	}
}

func TestValidateFractions(t *testing.T) {
	tests := []struct {
		train, dev float64
		wantErr    bool
	}{
		{0.70, 0.15, false},
		{1, 0, false},
		{0, 0, false},
		{0.5, 0.5, false},
		{0.8, 0.3, true},
		{-0.1, 0.2, true},
		{0.2, 1.5, true},
	}
	for _, tt := range tests {
		err := ValidateFractions(tt.train, tt.dev)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFractions(%v, %v) error = %v, wantErr %v", tt.train, tt.dev, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidFractions) {
			t.Errorf("expected ErrInvalidFractions, got: %v", err)
		}
	}
}

func TestProject(t *testing.T) {
	gold := mustParse(t, "# sent_id = s1\n# text = a b c\n"+
		"1-2\tab\t_\t_\t_\t_\t_\t_\t_\t_\n"+
		"1\ta\tA\tNOUN\tNN\tCase=Nom\t3\tnsubj\t3:nsubj\tSpaceAfter=No\n"+
		"2\tb\tB\tADP\tPSP\t_\t1\tcase\t_\t_\n"+
		"3\tc\tC\tVERB\tVM\t_\t0\troot\t_\t_\n").Sentences[0]

	preds := []tagger.Prediction{
		{Form: "a", Lemma: "a1", UPOS: "PROPN", XPOS: "NNP", Head: 3, Deprel: "nsubj"},
		{Form: "b", UPOS: "ADP", Head: 1, Deprel: "case"},
		{Form: "c", Lemma: "c1", UPOS: "VERB", XPOS: "VM", Head: 0, Deprel: "root"},
	}

	got := Project(gold, preds)

	if !reflect.DeepEqual(got.Comments, gold.Comments) {
		t.Errorf("comments = %v, want %v", got.Comments, gold.Comments)
	}
	if len(got.Tokens) != 3 {
		t.Fatalf("got %d tokens, want 3 (multiword span dropped)", len(got.Tokens))
	}

	want := conllu.Token{
		ID: "1", Form: "a", Lemma: "a1", UPOS: "PROPN", XPOS: "NNP",
		Feats: "_", Head: "3", Deprel: "nsubj", Deps: "_", Misc: "_",
	}
	if got.Tokens[0] != want {
		t.Errorf("token 0 = %+v, want %+v", got.Tokens[0], want)
	}
	if got.Tokens[1].Lemma != "_" || got.Tokens[1].XPOS != "_" {
		t.Errorf("missing prediction fields not defaulted: %+v", got.Tokens[1])
	}

	got.Comments[0] = "# changed"
	if gold.Comments[0] != "# sent_id = s1" {
		t.Error("projection shares comments with gold")
	}
}

func TestProject_Truncates(t *testing.T) {
	gold := mustParse(t, row("1", "a", "2", "nsubj")+"\n"+row("2", "b", "0", "root")+"\n"+row("3", "c", "2", "obj")+"\n").Sentences[0]

	got := Project(gold, []tagger.Prediction{{Head: 2, Deprel: "nsubj"}})
	if len(got.Tokens) != 1 {
		t.Fatalf("got %d tokens, want 1", len(got.Tokens))
	}
	if got.Tokens[0].Form != "a" {
		t.Errorf("form = %q, want gold form", got.Tokens[0].Form)
	}

	got = Project(gold, make([]tagger.Prediction, 5))
	if len(got.Tokens) != 3 {
		t.Errorf("extra predictions produced %d tokens, want 3", len(got.Tokens))
	}
}

func TestScore_ConcreteScenario(t *testing.T) {
	gold := mustParse(t, row("1", "a", "0", "root")+"\n"+row("2", "b", "1", "nsubj")+"\n"+row("3", "c", "1", "obj")+"\n")
	system := mustParse(t, row("1", "a", "0", "root")+"\n"+row("2", "b", "1", "nsubj")+"\n"+row("3", "c", "2", "obj")+"\n")

	counts := ScoreSentence(gold.Sentences[0], system.Sentences[0])
	if counts != (Counts{Tokens: 3, CorrectHeads: 2, CorrectLabeled: 2}) {
		t.Errorf("ScoreSentence() = %+v", counts)
	}

	scores, err := Score(gold, system)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	want := 100 * 2.0 / 3.0
	if scores.UAS != want || scores.LAS != want {
		t.Errorf("Score() = %v/%v, want %v", scores.UAS, scores.LAS, want)
	}
	if scores.String() != "UAS: 66.67%  LAS: 66.67%" {
		t.Errorf("String() = %q", scores.String())
	}
}

func TestScore(t *testing.T) {
	gold := mustParse(t, "# s1\n"+
		row("1", "a", "2", "nsubj")+"\n"+row("2", "b", "0", "root")+"\n\n"+
		"# s2\n"+
		row("1-2", "cd", "_", "_")+"\n"+row("1", "c", "0", "root")+"\n"+row("2", "d", "1", "obj")+"\n"+row("2.1", "e", "_", "_")+"\n")

	tests := []struct {
		name   string
		system string
		want   Counts
	}{
		{
			name: "label error",
			system: row("1", "a", "2", "obj") + "\n" + row("2", "b", "0", "root") + "\n\n" +
				row("1", "c", "0", "root") + "\n" + row("2", "d", "1", "obj") + "\n",
			want: Counts{Tokens: 4, CorrectHeads: 4, CorrectLabeled: 3},
		},
		{
			name: "label right but head wrong",
			system: row("1", "a", "0", "nsubj") + "\n" + row("2", "b", "0", "root") + "\n\n" +
				row("1", "c", "0", "root") + "\n" + row("2", "d", "1", "obj") + "\n",
			want: Counts{Tokens: 4, CorrectHeads: 3, CorrectLabeled: 3},
		},
		{
			name: "system shorter",
			system: row("1", "a", "2", "nsubj") + "\n\n" +
				row("1", "c", "0", "root") + "\n",
			want: Counts{Tokens: 2, CorrectHeads: 2, CorrectLabeled: 2},
		},
		{
			name: "system longer",
			system: row("1", "a", "2", "nsubj") + "\n" + row("2", "b", "0", "root") + "\n" + row("3", "x", "2", "punct") + "\n\n" +
				row("1", "c", "0", "root") + "\n" + row("2", "d", "1", "obj") + "\n",
			want: Counts{Tokens: 4, CorrectHeads: 4, CorrectLabeled: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := Score(gold, mustParse(t, tt.system))
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if scores.Counts != tt.want {
				t.Errorf("counts = %+v, want %+v", scores.Counts, tt.want)
			}
		})
	}
}

func TestScore_Identity(t *testing.T) {
	gold := mustParse(t, row("1", "a", "2", "nsubj")+"\n"+row("2", "b", "0", "root")+"\n\n"+row("1", "c", "0", "root")+"\n")

	scores, err := Score(gold, gold)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if scores.UAS != 100 || scores.LAS != 100 {
		t.Errorf("Score(gold, gold) = %v", scores)
	}
}

func TestScore_Deterministic(t *testing.T) {
	gold := mustParse(t, row("1", "a", "0", "root")+"\n"+row("2", "b", "1", "nsubj")+"\n"+row("3", "c", "1", "obj")+"\n")
	system := mustParse(t, row("1", "a", "0", "root")+"\n"+row("2", "b", "3", "nsubj")+"\n"+row("3", "c", "1", "iobj")+"\n")

	first, err := Score(gold, system)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Score(gold, system)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated Score() differs: %+v vs %+v", first, second)
	}
}

func TestScore_NoTokens(t *testing.T) {
	onlySpecial := mustParse(t, "# c\n"+row("1-2", "ab", "_", "_")+"\n"+row("1.1", "x", "_", "_")+"\n")

	tests := map[string][2]*conllu.Document{
		"multiword and empty nodes": {onlySpecial, onlySpecial},
		"empty documents":           {&conllu.Document{}, &conllu.Document{}},
		"nil documents":             {nil, nil},
	}
	for name, docs := range tests {
		t.Run(name, func(t *testing.T) {
			scores, err := Score(docs[0], docs[1])
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if scores.UAS != 0 || scores.LAS != 0 {
				t.Errorf("Score() = %v, want zeros", scores)
			}
		})
	}
}

func TestScore_Mismatch(t *testing.T) {
	gold := numbered(3)
	system := numbered(2)

	_, err := Score(gold, system)
	if !errors.Is(err, ErrSentenceCountMismatch) {
		t.Fatalf("expected ErrSentenceCountMismatch, got: %v", err)
	}
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *MismatchError, got %T", err)
	}
	if mismatch.Gold != 3 || mismatch.System != 2 {
		t.Errorf("MismatchError = %+v", mismatch)
	}
}

func TestPredict(t *testing.T) {
	gold := mustParse(t, "# sent_id = a\n"+row("1", "x", "2", "nsubj")+"\n"+row("2", "y", "0", "root")+"\n\n"+
		"# sent_id = empty\n"+row("1.1", "z", "_", "_")+"\n\n"+
		"# sent_id = b\n"+row("1", "p", "0", "root")+"\n")

	var (
		mu    sync.Mutex
		texts []string
	)
	oracle := tagger.Func(func(_ context.Context, text string) ([]tagger.Prediction, error) {
		mu.Lock()
		texts = append(texts, text)
		mu.Unlock()
		for _, s := range gold.Sentences {
			if s.Text() == text {
				return tagger.FromSentence(s), nil
			}
		}
		return nil, errors.New("unknown sentence")
	})

	var progress []int
	system, err := Predict(context.Background(), gold, oracle,
		WithConcurrency(2),
		WithProgress(func(done, total int) {
			progress = append(progress, done)
			if total != 3 {
				t.Errorf("progress total = %d, want 3", total)
			}
		}))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if system.Len() != gold.Len() {
		t.Fatalf("system has %d sentences, want %d", system.Len(), gold.Len())
	}
	for i, s := range system.Sentences {
		if s.ID() != gold.Sentences[i].ID() {
			t.Errorf("sentence %d has id %q, want %q", i, s.ID(), gold.Sentences[i].ID())
		}
	}
	if len(system.Sentences[1].Tokens) != 0 {
		t.Errorf("empty sentence got tokens: %+v", system.Sentences[1].Tokens)
	}
	if len(texts) != 2 {
		t.Errorf("tagger called %d times, want 2 (empty sentence skipped)", len(texts))
	}
	if !reflect.DeepEqual(progress, []int{1, 2, 3}) {
		t.Errorf("progress = %v, want [1 2 3]", progress)
	}

	scores, err := Score(gold, system)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if scores.UAS != 100 || scores.LAS != 100 {
		t.Errorf("oracle predictions scored %v", scores)
	}
}

func TestPredict_FileRoundTripKeepsAlignment(t *testing.T) {
	gold := mustParse(t, row("1", "x", "0", "root")+"\n\n"+
		row("1-2", "yz", "_", "_")+"\n"+row("1.1", "w", "_", "_")+"\n\n"+
		row("1", "y", "0", "root")+"\n")

	// Nothing for "x"; every other sentence is tagged correctly.
	partial := tagger.Func(func(_ context.Context, text string) ([]tagger.Prediction, error) {
		if text == "x" {
			return nil, nil
		}
		for _, s := range gold.Sentences {
			if s.Text() == text {
				return tagger.FromSentence(s), nil
			}
		}
		return nil, errors.New("unknown sentence")
	})

	system, err := Predict(context.Background(), gold, partial, WithConcurrency(1))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	tests := []struct {
		index   int
		comment string
	}{
		{index: 0, comment: "# text = x"},
		{index: 1, comment: "# text ="},
	}
	for _, tt := range tests {
		s := system.Sentences[tt.index]
		if len(s.Tokens) != 0 || !reflect.DeepEqual(s.Comments, []string{tt.comment}) {
			t.Errorf("sentence %d = %+v, want only %q", tt.index, s, tt.comment)
		}
	}

	path := filepath.Join(t.TempDir(), "predicted.conllu")
	if err := conllu.WriteFile(path, system); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	reread, err := conllu.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if reread.Len() != gold.Len() {
		t.Fatalf("read back %d sentences, want %d", reread.Len(), gold.Len())
	}

	scores, err := Score(gold, reread)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if scores.Tokens != 1 || scores.UAS != 100 {
		t.Errorf("scores = %+v, want the one tagged token correct", scores)
	}
}

func TestPredict_TaggerError(t *testing.T) {
	boom := errors.New("boom")
	failing := tagger.Func(func(context.Context, string) ([]tagger.Prediction, error) {
		return nil, boom
	})

	system, err := Predict(context.Background(), numbered(4), failing, WithConcurrency(1))
	if !errors.Is(err, boom) {
		t.Fatalf("expected tagger error, got: %v", err)
	}
	if system != nil {
		t.Error("expected no partial document")
	}
}

func TestPredict_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	never := tagger.Func(func(context.Context, string) ([]tagger.Prediction, error) {
		t.Error("tagger called after cancellation")
		return nil, nil
	})

	_, err := Predict(ctx, numbered(3), never)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestPredict_Empty(t *testing.T) {
	system, err := Predict(context.Background(), &conllu.Document{}, tagger.Func(nil))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if system.Len() != 0 {
		t.Errorf("got %d sentences, want 0", system.Len())
	}
}
