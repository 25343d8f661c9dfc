package core

import (
	"reflect"
	"testing"
)

func acct(name, url, user, cat string, pin bool) Account {
	return Account{ID: name, Name: name, URL: url, Username: user, Password: "x", Category: cat, RequiresDynamicPin: pin}
}

func TestExistingCategories(t *testing.T) {
	accounts := []Account{
		acct("A", "", "", "trabajo", false),
		acct("B", "", "", "personal", false),
		acct("C", "", "", "trabajo", false),
		acct("D", "", "", "", false),
		acct("E", "", "", "  ", false),
	}
	got := ExistingCategories(accounts)
	want := []string{"personal", "trabajo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := ExistingCategories(nil); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestCategoryCount(t *testing.T) {
	accounts := []Account{
		acct("A", "", "", "trabajo", false),
		acct("B", "", "", "Trabajo", false), // exact match only
		acct("C", "", "", "trabajo", false),
	}
	if n := CategoryCount(accounts, "trabajo"); n != 2 {
		t.Fatalf("got %d, want 2", n)
	}
	if n := CategoryCount(accounts, "ocio"); n != 0 {
		t.Fatalf("got %d, want 0", n)
	}
}

func TestMostUsedCategories(t *testing.T) {
	var accounts []Account
	add := func(cat string, n int) {
		for i := 0; i < n; i++ {
			accounts = append(accounts, acct(cat, "", "", cat, false))
		}
	}
	add("a", 3)
	add("b", 5)
	add("c", 1)

	got := MostUsedCategories(accounts, 2)
	want := []CategoryUsage{{Name: "b", Count: 5}, {Name: "a", Count: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Ties keep the lexical order of the category inventory.
	tied := []Account{
		acct("x", "", "", "zeta", false),
		acct("y", "", "", "alfa", false),
	}
	gotTied := MostUsedCategories(tied, 5)
	wantTied := []CategoryUsage{{Name: "alfa", Count: 1}, {Name: "zeta", Count: 1}}
	if !reflect.DeepEqual(gotTied, wantTied) {
		t.Fatalf("got %v, want %v", gotTied, wantTied)
	}
}

func TestFilterAccounts(t *testing.T) {
	a := acct("Gmail", "https://gmail.com", "yo", "trabajo", false)
	b := acct("Github", "https://github.com", "dev", "personal", false)
	accounts := []Account{a, b}

	// Category and search combine with AND.
	if got := FilterAccounts(accounts, Filter{Category: "trabajo", SearchTerm: "git"}); len(got) != 0 {
		t.Fatalf("expected empty intersection, got %v", got)
	}
	got := FilterAccounts(accounts, Filter{SearchTerm: "git"})
	if len(got) != 1 || got[0].Name != "Github" {
		t.Fatalf("got %v", got)
	}
	// Search matches url and username too, case-insensitively.
	if got := FilterAccounts(accounts, Filter{SearchTerm: "GMAIL.COM"}); len(got) != 1 || got[0].Name != "Gmail" {
		t.Fatalf("got %v", got)
	}
	if got := FilterAccounts(accounts, Filter{SearchTerm: "dev"}); len(got) != 1 || got[0].Name != "Github" {
		t.Fatalf("got %v", got)
	}
	// Empty filter returns everything in input order.
	if got := FilterAccounts(accounts, Filter{}); !reflect.DeepEqual(got, accounts) {
		t.Fatalf("got %v", got)
	}
}

func TestStats(t *testing.T) {
	accounts := []Account{
		acct("A", "", "", "trabajo", true),
		acct("B", "", "", "personal", false),
		acct("C", "", "", "trabajo", true),
		acct("D", "", "", "", false),
	}
	filtered := FilterAccounts(accounts, Filter{Category: "trabajo"})
	s := Stats(accounts, filtered)
	want := VaultStats{Total: 4, DynamicPin: 2, Categories: 2, Filtered: 2}
	if s != want {
		t.Fatalf("got %+v, want %+v", s, want)
	}
}
