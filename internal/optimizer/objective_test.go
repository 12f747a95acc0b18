package optimizer_test

import (
	"testing"

	"github.com/ggtechco/finsaas/internal/optimizer"
)

func TestObjectiveLooksUpEveryRegisteredName(t *testing.T) {
	for _, name := range []string{"sharpe", "sortino", "return", "max_dd", "profit_factor", "calmar"} {
		if _, err := optimizer.Objective(name); err != nil {
			t.Errorf("objective %q: unexpected error: %v", name, err)
		}
	}
}

func TestObjectiveUnknownNameErrors(t *testing.T) {
	if _, err := optimizer.Objective("not_a_real_objective"); err == nil {
		t.Fatal("expected an error for an unknown objective name")
	}
}
