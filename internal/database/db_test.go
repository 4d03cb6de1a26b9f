package database

import "testing"

func TestDSN(t *testing.T) {
	got := dsn("rental", "s3cret", "db.local", "3306", "rentals")
	want := "rental:s3cret@tcp(db.local:3306)/rentals?charset=utf8mb4&parseTime=true&loc=UTC"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDSN_EmptyPassword(t *testing.T) {
	got := dsn("rental", "", "127.0.0.1", "3306", "rentals")
	want := "rental@tcp(127.0.0.1:3306)/rentals?charset=utf8mb4&parseTime=true&loc=UTC"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
