package repository

import "testing"

func TestBuildLikeConditionByDialect(t *testing.T) {
	cond, count := buildLikeConditionByDialect("sqlite", "name", " ", "contact")
	if count != 2 {
		t.Fatalf("expected 2 args, got %d", count)
	}
	if cond != `name LIKE ? ESCAPE '\' OR contact LIKE ? ESCAPE '\'` {
		t.Fatalf("unexpected sqlite condition: %s", cond)
	}
	cond, _ = buildLikeConditionByDialect("postgres", "name")
	if cond != `name ILIKE ? ESCAPE '\'` {
		t.Fatalf("unexpected postgres condition: %s", cond)
	}
}

func TestLikePatterns(t *testing.T) {
	if got := prefixPattern("김"); got != "김%" {
		t.Fatalf("unexpected prefix pattern: %s", got)
	}
	if got := containsPattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Fatalf("unexpected contains pattern: %s", got)
	}
	if args := repeatLikeArgs("x", 3); len(args) != 3 || args[2] != "x" {
		t.Fatalf("unexpected args: %v", args)
	}
}
