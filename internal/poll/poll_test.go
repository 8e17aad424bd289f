package poll

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func filledQuestion(id string, answers ...string) Question {
	q := Question{ID: id, Title: "question " + id}
	for _, a := range answers {
		q.Answers = append(q.Answers, Answer{ID: id + "-" + a, Title: a})
	}
	return q
}

func TestIsSubmittable(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want bool
	}{
		{name: "empty", form: Form{}, want: false},
		{
			name: "single question",
			form: Form{Title: "poll", Questions: []Question{filledQuestion("q1", "yes", "no")}},
			want: false,
		},
		{
			name: "two complete questions",
			form: Form{Title: "poll", Questions: []Question{
				filledQuestion("q1", "yes", "no"),
				filledQuestion("q2", "red", "blue", "green"),
			}},
			want: true,
		},
		{
			name: "missing poll title",
			form: Form{Questions: []Question{
				filledQuestion("q1", "yes", "no"),
				filledQuestion("q2", "red", "blue"),
			}},
			want: false,
		},
		{
			name: "question with one answer",
			form: Form{Title: "poll", Questions: []Question{
				filledQuestion("q1", "yes", "no"),
				filledQuestion("q2", "red"),
			}},
			want: false,
		},
		{
			name: "blank answer",
			form: Form{Title: "poll", Questions: []Question{
				filledQuestion("q1", "yes", "no"),
				filledQuestion("q2", "red", ""),
			}},
			want: false,
		},
		{
			name: "blank question title",
			form: Form{Title: "poll", Questions: []Question{
				filledQuestion("q1", "yes", "no"),
				{ID: "q2", Answers: []Answer{{ID: "a", Title: "a"}, {ID: "b", Title: "b"}}},
			}},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.form.IsSubmittable(); got != tc.want {
				t.Fatalf("IsSubmittable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildPoll(t *testing.T) {
	f := Form{}.
		WithTitle("Lunch").
		AddQuestion("q1").
		UpdateQuestion("q1", "Where?").
		AddAnswer("q1", "a1").
		AddAnswer("q1", "a2").
		UpdateAnswer("q1", "a1", "Pizza").
		UpdateAnswer("q1", "a2", "Sushi").
		AddQuestion("q2").
		UpdateQuestion("q2", "When?").
		AddAnswer("q2", "b1").
		AddAnswer("q2", "b2").
		UpdateAnswer("q2", "b1", "Noon").
		UpdateAnswer("q2", "b2", "One")

	want := Form{
		Title: "Lunch",
		Questions: []Question{
			{ID: "q1", Title: "Where?", Answers: []Answer{{"a1", "Pizza"}, {"a2", "Sushi"}}},
			{ID: "q2", Title: "When?", Answers: []Answer{{"b1", "Noon"}, {"b2", "One"}}},
		},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
	if !f.IsSubmittable() {
		t.Fatal("expected built poll to be submittable")
	}
}

func TestRemoveQuestionKeepsSiblings(t *testing.T) {
	f := Form{Title: "t"}.AddQuestion("q1").AddQuestion("q2").AddQuestion("q3")

	got := f.RemoveQuestion("q2")

	want := []string{"q1", "q3"}
	var ids []string
	for _, q := range got.Questions {
		ids = append(ids, q.ID)
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if len(f.Questions) != 3 {
		t.Fatalf("receiver mutated: %d questions", len(f.Questions))
	}
}

func TestRemoveAnswerKeepsSiblings(t *testing.T) {
	f := Form{}.AddQuestion("q1").AddAnswer("q1", "a1").AddAnswer("q1", "a2").AddAnswer("q1", "a3").
		AddQuestion("q2").AddAnswer("q2", "a2")

	got := f.RemoveAnswer("q1", "a2")

	want := Form{Questions: []Question{
		{ID: "q1", Answers: []Answer{{ID: "a1"}, {ID: "a3"}}},
		{ID: "q2", Answers: []Answer{{ID: "a2"}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
	if len(f.Questions[0].Answers) != 3 {
		t.Fatal("receiver mutated")
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	f := Form{Title: "t"}.AddQuestion("q1").AddAnswer("q1", "a1")

	for name, got := range map[string]Form{
		"remove question": f.RemoveQuestion("nope"),
		"update question": f.UpdateQuestion("nope", "x"),
		"add answer":      f.AddAnswer("nope", "a2"),
		"remove answer":   f.RemoveAnswer("q1", "nope"),
		"update answer":   f.UpdateAnswer("q1", "nope", "x"),
	} {
		if diff := cmp.Diff(f, got); diff != "" {
			t.Errorf("%s changed the form (-want +got):\n%s", name, diff)
		}
	}
}

func TestUpdateAnswerDoesNotAlias(t *testing.T) {
	f := Form{}.AddQuestion("q1").AddAnswer("q1", "a1")
	_ = f.UpdateAnswer("q1", "a1", "changed")

	if f.Questions[0].Answers[0].Title != "" {
		t.Fatal("receiver mutated through shared answers slice")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
