package rules_test

import (
	"context"
	"testing"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/rules"
)

func TestConditional_Holds(t *testing.T) {
	v := formkit.Values{"price": "12.5", "period": "dinner", "qty": 3}
	cases := []struct {
		name string
		c    rules.Conditional
		want bool
	}{
		{"eq string", rules.If("period", rules.Eq, "dinner"), true},
		{"eq numeric string", rules.If("price", rules.Eq, 12.5), true},
		{"ne", rules.If("period", rules.Ne, "lunch"), true},
		{"gt", rules.If("qty", rules.Gt, 2), true},
		{"le", rules.If("qty", rules.Le, 2), false},
		{"missing field", rules.If("nope", rules.Eq, nil), false},
		{"all", rules.If("qty", rules.Ge, 3).And(rules.If("period", rules.Eq, "dinner")), true},
		{"all fails", rules.IfAll(rules.If("qty", rules.Lt, 3), rules.If("period", rules.Eq, "dinner")), false},
		{"any", rules.If("qty", rules.Lt, 3).Or(rules.If("period", rules.Eq, "dinner")), true},
		{"any fails", rules.IfAny(rules.If("qty", rules.Lt, 3)), false},
		{"non numeric order", rules.If("period", rules.Gt, 1), false},
	}
	for _, c := range cases {
		if got := c.c.Holds(v); got != c.want {
			t.Fatalf("%s: got %v", c.name, got)
		}
	}
}

func TestRequiredIf(t *testing.T) {
	ctx := context.Background()
	check := rules.RequiredIf("deliveryAddress", rules.If("delivery", rules.Eq, true), "Address is required for delivery")
	if iss := check(ctx, formkit.Values{"delivery": false}); len(iss) != 0 {
		t.Fatalf("condition does not hold, got %v", iss)
	}
	iss := check(ctx, formkit.Values{"delivery": true, "deliveryAddress": " "})
	if len(iss) != 1 || iss[0].Field != "deliveryAddress" || iss[0].Code != formkit.CodeRequired {
		t.Fatalf("unexpected issues %v", iss)
	}
}

func TestEqualFields(t *testing.T) {
	ctx := context.Background()
	check := rules.EqualFields("confirm", "password", "Passwords do not match")
	if iss := check(ctx, formkit.Values{"password": "a", "confirm": "a"}); len(iss) != 0 {
		t.Fatalf("equal values should pass")
	}
	iss := check(ctx, formkit.Values{"password": "a", "confirm": "b"})
	if len(iss) != 1 || iss[0].Path != "/confirm" || iss[0].Message != "Passwords do not match" {
		t.Fatalf("unexpected issues %v", iss)
	}
}

func TestIssuePathsAreEscaped(t *testing.T) {
	ctx := context.Background()
	check := rules.EqualFields("confirm/email", "email", "")
	iss := check(ctx, formkit.Values{"email": "a@example.com", "confirm/email": "b@example.com"})
	if len(iss) != 1 || iss[0].Path != "/confirm~1email" {
		t.Fatalf("unexpected issues %v", iss)
	}
}

func TestAtLeastOneAndUniqueItems(t *testing.T) {
	ctx := context.Background()
	one := rules.AtLeastOne("categories", "Pick a category")
	if len(one(ctx, formkit.Values{})) != 1 || len(one(ctx, formkit.Values{"categories": []string{}})) != 1 {
		t.Fatalf("missing or empty list should fail")
	}
	if iss := one(ctx, formkit.Values{"categories": []any{}}); len(iss) != 1 || iss[0].Code != formkit.CodeTooFewItems {
		t.Fatalf("empty list should report too_few_items: %v", iss)
	}
	if len(one(ctx, formkit.Values{"categories": []string{"a"}})) != 0 {
		t.Fatalf("non-empty list should pass")
	}

	uniq := rules.UniqueItems("categories", "Categories must be unique")
	iss := uniq(ctx, formkit.Values{"categories": []any{"Fish", " fish "}})
	if len(iss) != 1 || iss[0].Params["dup"] != 1 {
		t.Fatalf("case-folded duplicate not found: %v", iss)
	}
}

func TestAndOr(t *testing.T) {
	ctx := context.Background()
	fail := func(field string) rules.Check {
		return func(context.Context, formkit.Values) []formkit.Issue {
			return []formkit.Issue{{Field: field}}
		}
	}
	pass := func(context.Context, formkit.Values) []formkit.Issue { return nil }

	if n := len(rules.And(fail("a"), nil, fail("b"))(ctx, nil)); n != 2 {
		t.Fatalf("And should concatenate, got %d", n)
	}
	if n := len(rules.Or(fail("a"), pass)(ctx, nil)); n != 0 {
		t.Fatalf("Or should pass when a branch passes")
	}
	two := rules.And(fail("a"), fail("b"))
	if iss := rules.Or(two, fail("c"))(ctx, nil); len(iss) != 1 || iss[0].Field != "c" {
		t.Fatalf("Or should return the smallest failing branch, got %v", iss)
	}
}

func TestNamed_WiresIntoSchema(t *testing.T) {
	s := formkit.MustSchema([]formkit.Field{
		formkit.NewField("delivery"),
		formkit.NewField("deliveryAddress"),
	}, formkit.WithRefine(
		rules.Named("addressForDelivery",
			rules.RequiredIf("deliveryAddress", rules.If("delivery", rules.Eq, true), "")),
	))
	res := s.ValidateForm(context.Background(), formkit.Values{"delivery": true})
	if res.Valid {
		t.Fatalf("expected invalid")
	}
	it := res.Issues[0]
	if it.Rule != "addressForDelivery" || it.Message != "Required" {
		t.Fatalf("unexpected issue %+v", it)
	}
}
