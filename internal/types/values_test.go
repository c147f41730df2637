package types_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/uribuilder/internal/types"
)

func TestValues(t *testing.T) {
	t.Parallel()

	vals := make(types.Values)
	vals.Append("Transport", "udp").Append("transport", "tcp").Set("LR", "")

	if got, want := vals.Get("TRANSPORT"), []string{"udp", "tcp"}; !cmp.Equal(got, want) {
		t.Errorf("vals.Get(\"TRANSPORT\") = %v, want %v", got, want)
	}
	if got, ok := vals.Last("transport"); got != "tcp" || !ok {
		t.Errorf("vals.Last(\"transport\") = (%q, %v), want (\"tcp\", true)", got, ok)
	}
	if !vals.Has("lr") {
		t.Error("vals.Has(\"lr\") = false, want true")
	}
	if got, want := vals.Keys(), []string{"lr", "transport"}; !cmp.Equal(got, want) {
		t.Errorf("vals.Keys() = %v, want %v", got, want)
	}

	clone := vals.Clone()
	clone.Append("transport", "tls").Del("lr")
	if diff := cmp.Diff(vals, types.Values{"transport": {"udp", "tcp"}, "lr": {""}}); diff != "" {
		t.Errorf("source values changed by clone mutation\ndiff (-got +want):\n%v", diff)
	}
	if got, ok := vals.Last("missing"); got != "" || ok {
		t.Errorf("vals.Last(\"missing\") = (%q, %v), want (\"\", false)", got, ok)
	}
	if got := types.Values(nil).Clone(); got != nil {
		t.Errorf("nil.Clone() = %v, want nil", got)
	}
}
