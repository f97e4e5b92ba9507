package placeholder

import "testing"

func TestTranslateExamples(t *testing.T) {
	cases := []struct {
		name string
		sql  string
		n    int
		want string
	}{
		{
			name: "simple",
			sql:  "SELECT ?1",
			n:    1,
			want: "SELECT $1",
		},
		{
			name: "line comment preserved",
			sql:  "SELECT 1 -- ?1\n + ?1 AS val",
			n:    1,
			want: "SELECT 1 -- ?1\n + $1 AS val",
		},
		{
			name: "single-quoted literal preserved, escaped quote honored",
			sql:  "SELECT 'O''Reilly || ?1' || ?1",
			n:    1,
			want: "SELECT 'O''Reilly || ?1' || $1",
		},
		{
			name: "dollar-quoted string preserved",
			sql:  "SELECT $tag$?1$tag$ || ?1",
			n:    1,
			want: "SELECT $tag$?1$tag$ || $1",
		},
		{
			name: "empty dollar tag",
			sql:  "SELECT $$literal ?1 text$$ || ?1",
			n:    1,
			want: "SELECT $$literal ?1 text$$ || $1",
		},
		{
			name: "block comment preserved",
			sql:  "SELECT /* ?1 is not a param */ ?1",
			n:    1,
			want: "SELECT /* ?1 is not a param */ $1",
		},
		{
			name: "double-quoted identifier preserved",
			sql:  `SELECT "col?1" , ?1`,
			n:    1,
			want: `SELECT "col?1" , $1`,
		},
		{
			name: "multiple placeholders in original textual position",
			sql:  "SELECT ?1, ?2, ?10",
			n:    10,
			want: "SELECT $1, $2, $10",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Translate(tc.sql, StylePostgres, tc.n, true)
			if got != tc.want {
				t.Fatalf("Translate(%q) = %q, want %q", tc.sql, got, tc.want)
			}
		})
	}
}

func TestTranslateNoopWhenDisabledOrEmptyParams(t *testing.T) {
	sql := "SELECT ?1"

	if got := Translate(sql, StylePostgres, 1, false); got != sql {
		t.Fatalf("expected no-op when disabled, got %q", got)
	}

	if got := Translate(sql, StylePostgres, 0, true); got != sql {
		t.Fatalf("expected no-op when params empty, got %q", got)
	}

	if got := Translate(sql, StyleNone, 1, true); got != sql {
		t.Fatalf("expected no-op for StyleNone, got %q", got)
	}
}

// TestTranslateIdempotentOnPostgresStyle verifies spec §8.2: translating an
// already-Postgres-style SQL string is a no-op because there is no bare ?N
// left to rewrite.
func TestTranslateIdempotentOnPostgresStyle(t *testing.T) {
	sql := "SELECT $1, $2 FROM t WHERE x = $1"
	got := Translate(sql, StylePostgres, 2, true)
	if got != sql {
		t.Fatalf("expected idempotent no-op, got %q", got)
	}
}

func TestResolveToggle(t *testing.T) {
	if !Resolve(ToggleForceOn, false) {
		t.Fatal("ForceOn must resolve true regardless of pool default")
	}
	if Resolve(ToggleForceOff, true) {
		t.Fatal("ForceOff must resolve false regardless of pool default")
	}
	if Resolve(ToggleDefault, true) != true || Resolve(ToggleDefault, false) != false {
		t.Fatal("ToggleDefault must defer to pool default")
	}
}
