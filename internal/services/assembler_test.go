package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Lllllllleong/documentquizflow/internal/models"
)

const sampleQuiz = `{"questions":[{"type":"mcq","question":"首都は?","choices":["東京","大阪"],"answer":"東京","explanation":"本文より","sourceText":"首都は東京"}]}`

func TestParseQuiz(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantRaw   bool
		questions int
	}{
		{"plain json", sampleQuiz, false, 1},
		{"json fence", "```json\n" + sampleQuiz + "\n```", false, 1},
		{"bare fence", "```\n" + sampleQuiz + "\n```", false, 1},
		{"surrounding whitespace", "\n  " + sampleQuiz + "  \n", false, 1},
		{"empty questions", `{"questions":[]}`, false, 0},
		{"prose", "申し訳ありませんが作成できません。", true, 0},
		{"truncated", sampleQuiz[:40], true, 0},
		{"top-level array", `[{"type":"mcq"}]`, true, 0},
		{"missing questions", `{"quiz":[]}`, true, 0},
		{"null questions", `{"questions":null}`, true, 0},
		{"questions not an array", `{"questions":"five"}`, true, 0},
		{"upper-case fence tag", "```JSON\n" + sampleQuiz + "\n```", false, 1},
		{"other fence tag", "```jsonc\n" + sampleQuiz + "\n```", false, 1},
		{"single-line fence", "```json" + sampleQuiz + "```", false, 1},
		{"numeric answer", `{"questions":[{"type":"mcq","question":"Q","choices":["a","b"],"answer":1,"explanation":"e","sourceText":"s"}]}`, false, 1},
		{"array source text", `{"questions":[{"type":"cloze","question":"Q","answer":"a","explanation":"e","sourceText":["l1","l2"]}]}`, false, 1},
		{"non-object item skipped", `{"questions":["oops",{"type":"cloze","question":"Q"}]}`, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuiz(tt.raw)
			switch q := got.(type) {
			case models.RawQuizText:
				if !tt.wantRaw {
					t.Fatalf("ParseQuiz() returned raw text %q", q)
				}
				if string(q) != tt.raw {
					t.Errorf("raw text = %q, want the original %q", q, tt.raw)
				}
			case models.ParsedQuiz:
				if tt.wantRaw {
					t.Fatalf("ParseQuiz() parsed %q", tt.raw)
				}
				if len(q.Questions) != tt.questions {
					t.Errorf("questions = %d, want %d", len(q.Questions), tt.questions)
				}
			default:
				t.Fatalf("ParseQuiz() returned %T", got)
			}
		})
	}
}

func TestParsedQuizFields(t *testing.T) {
	q, ok := ParseQuiz(sampleQuiz).(models.ParsedQuiz)
	if !ok {
		t.Fatal("sample quiz did not parse")
	}
	got := q.Questions[0]
	if got.Kind != models.QuestionMultipleChoice || got.Answer != "東京" || got.SourceExcerpt != "首都は東京" || len(got.Choices) != 2 {
		t.Errorf("question = %+v", got)
	}
}

func TestParseQuizLenientFields(t *testing.T) {
	raw := `{"questions":[{"type":"mcq","question":"Q","choices":["a",2],"answer":1,"explanation":"e","sourceText":["l1","l2"]}]}`
	q, ok := ParseQuiz(raw).(models.ParsedQuiz)
	if !ok {
		t.Fatal("quiz with loosely typed fields did not parse")
	}
	got := q.Questions[0]
	if got.Answer != "1" || got.SourceExcerpt != "l1\nl2" || len(got.Choices) != 2 || got.Choices[1] != "2" {
		t.Errorf("question = %+v", got)
	}

	body, err := json.Marshal(q)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != raw {
		t.Errorf("marshalled quiz = %s, want the model output unchanged", body)
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("あ", 450)
	if got := []rune(Preview(long)); len(got) != PreviewLength {
		t.Errorf("len(Preview) = %d runes, want %d", len(got), PreviewLength)
	}
	if got := Preview(long); got != strings.Repeat("あ", PreviewLength) {
		t.Error("Preview must be the exact prefix without a marker")
	}
	if got := Preview("short"); got != "short" {
		t.Errorf("Preview(short) = %q", got)
	}
	exact := strings.Repeat("x", PreviewLength)
	if got := Preview(exact); got != exact {
		t.Error("text of exactly PreviewLength must be returned unchanged")
	}
}

func TestAssembleJSON(t *testing.T) {
	res := Assemble("抽出テキスト", "```json\n"+sampleQuiz+"\n```")
	body, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"extractedPreview":"抽出テキスト","quiz":` + sampleQuiz + `}`
	if string(body) != want {
		t.Errorf("body = %s\nwant %s", body, want)
	}

	res = Assemble("抽出テキスト", "not json")
	body, _ = json.Marshal(res)
	if want := `{"extractedPreview":"抽出テキスト","quiz":"not json"}`; string(body) != want {
		t.Errorf("raw body = %s, want %s", body, want)
	}
}
