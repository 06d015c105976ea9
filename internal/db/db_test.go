package db

import (
	"testing"
	"time"

	"ejournal/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestGetRecordMissing(t *testing.T) {
	d := newTestDB(t)
	_, ok, err := d.GetRecord("nope")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("missing record should report ok=false")
	}
}

func TestPutAndGetRecord(t *testing.T) {
	d := newTestDB(t)
	if err := d.PutRecord("ejournal-theme", `{"c1":"#111111"}`); err != nil {
		t.Fatal(err)
	}
	value, ok, err := d.GetRecord("ejournal-theme")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || value != `{"c1":"#111111"}` {
		t.Fatalf("unexpected record: ok=%v value=%q", ok, value)
	}
}

func TestPutRecordOverwrites(t *testing.T) {
	d := newTestDB(t)
	d.PutRecord("key", "v1")
	d.PutRecord("key", "v2")
	value, ok, _ := d.GetRecord("key")
	if !ok || value != "v2" {
		t.Fatalf("expected v2, got ok=%v value=%q", ok, value)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d := newTestDB(t)
	if err := d.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestCreateAndGetUser(t *testing.T) {
	d := newTestDB(t)
	u := &models.User{
		ID:       "u1",
		Email:    "mai@example.com",
		Username: "mai",
		Birthday: models.Birthday{Day: "7", Month: "4", Year: "2001"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := d.CreateUser(u, "hash"); err != nil {
		t.Fatal(err)
	}

	got, err := d.GetUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != u.Email || got.Username != u.Username {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.Birthday != u.Birthday {
		t.Fatalf("birthday mismatch: %+v", got.Birthday)
	}
	if got.ProfileImage != "" {
		t.Fatal("profile image should default to empty placeholder")
	}
}

func TestGetUserByEmail(t *testing.T) {
	d := newTestDB(t)
	u := &models.User{ID: "u1", Email: "mai@example.com", Username: "mai", CreatedAt: time.Now().UTC()}
	d.CreateUser(u, "secret-hash")

	got, hash, err := d.GetUserByEmail("mai@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "u1" || hash != "secret-hash" {
		t.Fatalf("unexpected result: %+v hash=%q", got, hash)
	}

	if _, _, err := d.GetUserByEmail("nobody@example.com"); err == nil {
		t.Fatal("expected error for unknown email")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	d := newTestDB(t)
	now := time.Now().UTC()
	d.CreateUser(&models.User{ID: "u1", Email: "dup@example.com", Username: "a", CreatedAt: now}, "h")
	err := d.CreateUser(&models.User{ID: "u2", Email: "dup@example.com", Username: "b", CreatedAt: now}, "h")
	if err == nil {
		t.Fatal("expected unique constraint error for duplicate email")
	}
}
