package treehouse

import "testing"

func TestKeyComponent(t *testing.T) {
	field := KeyComponent.Field("widget")
	if field.Key().Name() != "component" {
		t.Errorf("expected key 'component', got %q", field.Key().Name())
	}
}

func TestKeyOldState(t *testing.T) {
	field := KeyOldState.Field("unbound")
	if field.Key().Name() != "old_state" {
		t.Errorf("expected key 'old_state', got %q", field.Key().Name())
	}
}

func TestKeyNewState(t *testing.T) {
	field := KeyNewState.Field("mounted")
	if field.Key().Name() != "new_state" {
		t.Errorf("expected key 'new_state', got %q", field.Key().Name())
	}
}

func TestKeyError(t *testing.T) {
	field := KeyError.Field("something went wrong")
	if field.Key().Name() != "error" {
		t.Errorf("expected key 'error', got %q", field.Key().Name())
	}
}

func TestKeyFields(t *testing.T) {
	field := KeyFields.Field(3)
	if field.Key().Name() != "fields" {
		t.Errorf("expected key 'fields', got %q", field.Key().Name())
	}
}
