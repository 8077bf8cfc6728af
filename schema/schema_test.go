package schema

import "testing"

func TestGitActionIsValid(t *testing.T) {
	for _, action := range GitActionValues() {
		if !action.IsValid() {
			t.Errorf("Expected %q to be valid", action)
		}
	}
	if GitAction("push").IsValid() {
		t.Error("Expected push to be invalid")
	}
	if GitAction("").IsValid() {
		t.Error("Expected empty action to be invalid")
	}
}

func TestDatabaseBackendIsValid(t *testing.T) {
	for _, backend := range []DatabaseBackend{SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend} {
		if !backend.IsValid() {
			t.Errorf("Expected %q to be valid", backend)
		}
	}
	if DatabaseBackend("redis").IsValid() {
		t.Error("Expected redis to be invalid")
	}
}
