package store

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		driver  string
		wantErr bool
	}{
		{"", "sqlite", "sqlite", false},
		{"sqlite3", "sqlite", "sqlite", false},
		{"Postgres", "postgres", "postgres", false},
		{"postgresql", "postgres", "postgres", false},
		{"mysql", "mysql", "mysql", false},
		{"oracle", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DialectFor(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DialectFor(%q) expected error", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("DialectFor(%q): %v", tt.name, err)
			}
			if d.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", d.Name(), tt.want)
			}
			if d.DriverName() != tt.driver {
				t.Errorf("DriverName() = %q, want %q", d.DriverName(), tt.driver)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	q := `INSERT INTO records (record_key, record_value) VALUES (?, ?)`

	if got := NewSQLiteDialect().RewriteQuery(q); got != q {
		t.Errorf("sqlite rewrite = %q, want unchanged", got)
	}
	if got := NewMySQLDialect().RewriteQuery(q); got != q {
		t.Errorf("mysql rewrite = %q, want unchanged", got)
	}

	want := `INSERT INTO records (record_key, record_value) VALUES ($1, $2)`
	if got := NewPostgresDialect().RewriteQuery(q); got != want {
		t.Errorf("postgres rewrite = %q, want %q", got, want)
	}
}

func TestLikePrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"session:", "session:%"},
		{"a_b", "a!_b%"},
		{"50%", "50!%%"},
		{"hey!", "hey!!%"},
		{"", "%"},
	}
	for _, tt := range tests {
		if got := likePrefix(tt.prefix); got != tt.want {
			t.Errorf("likePrefix(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestMongoPrefixFilterQuotesMeta(t *testing.T) {
	f := prefixFilter("session:a.b")
	inner, ok := f["_id"].(bson.M)
	if !ok {
		t.Fatalf("unexpected filter shape: %#v", f["_id"])
	}
	if got := inner["$regex"]; got != `^session:a\.b` {
		t.Errorf("$regex = %v, want %q", got, `^session:a\.b`)
	}
}
