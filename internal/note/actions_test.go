package note

import "testing"

func noteWithActions(t *testing.T, actions string) *Note {
	t.Helper()
	return buildNote(t, `{"body":[{"text":"first"},{"actions":`+actions+`}]}`)
}

func TestEnabledActions_ApprovedComment(t *testing.T) {
	n := noteWithActions(t, `{"approve-comment":true,"like-comment":true}`)
	got := n.EnabledActions()
	if !got.Has(ActionUnapprove) {
		t.Error("approve=true should enable unapprove")
	}
	if got.Has(ActionApprove) {
		t.Error("approve=true should not enable approve")
	}
	if !got.Has(ActionLike) {
		t.Error("like key should enable like")
	}
}

func TestEnabledActions_UnapprovedComment(t *testing.T) {
	got := noteWithActions(t, `{"approve-comment":false}`).EnabledActions()
	if !got.Has(ActionApprove) || got.Has(ActionUnapprove) {
		t.Errorf("approve=false should enable approve only, got %v", got.Names())
	}
}

func TestEnabledActions_Empty(t *testing.T) {
	if got := noteWithActions(t, `{}`).EnabledActions(); len(got) != 0 {
		t.Errorf("empty actions object should yield no actions, got %v", got.Names())
	}
	if got := buildNote(t, `{}`).EnabledActions(); len(got) != 0 {
		t.Errorf("absent body should yield no actions, got %v", got.Names())
	}
}

func TestEnabledActions_ReplyAndSpam(t *testing.T) {
	got := noteWithActions(t, `{"replyto-comment":true,"spam-comment":false}`).EnabledActions()
	if !got.Has(ActionReply) {
		t.Error("reply key should enable reply")
	}
	// Spam is keyed on presence, not value.
	if !got.Has(ActionSpam) {
		t.Error("spam key should enable spam regardless of value")
	}
}

func TestCommentStatus(t *testing.T) {
	cases := []struct {
		name    string
		actions string
		want    CommentStatus
	}{
		{"unapprove available means approved", `{"approve-comment":true}`, StatusApproved},
		{"approve available means unapproved", `{"approve-comment":false}`, StatusUnapproved},
		{"neither means unknown", `{"replyto-comment":true}`, StatusUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := noteWithActions(t, tc.actions).CommentStatus(); got != tc.want {
				t.Errorf("status = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHasLikedComment(t *testing.T) {
	if !noteWithActions(t, `{"like-comment":true}`).HasLikedComment() {
		t.Error("like=true should report liked")
	}
	if noteWithActions(t, `{"like-comment":false}`).HasLikedComment() {
		t.Error("like=false should not report liked")
	}
	if noteWithActions(t, `{}`).HasLikedComment() {
		t.Error("absent like key should not report liked")
	}
}

func TestActionSetNames(t *testing.T) {
	got := noteWithActions(t, `{"replyto-comment":true,"approve-comment":false,"like-comment":true}`).EnabledActions().Names()
	want := []string{"reply", "approve", "like"}
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
