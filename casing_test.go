package carpet

import "testing"

func TestCamelCaseToSnakeCase(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"name", "name"},
		{"Name", "name"},
		{"firstName", "first_name"},
		{"FirstName", "first_name"},
		{"parseXMLValue", "parse_xml_value"},
		{"URLPath", "url_path"},
		{"ID", "id"},
		{"userID", "user_id"},
		{"_privateField", "privateField"},
		{"__doubleLeading", "doubleLeading"},
		{"_alreadyLower", "alreadyLower"},
		{"_", "_"},
		{"A", "a"},
		{"HTTPStatus200", "http_status200"},
	}
	for _, c := range cases {
		if got := camelCaseToSnakeCase(c.in); got != c.want {
			t.Errorf("camelCaseToSnakeCase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplyColumnNaming(t *testing.T) {
	if got := applyColumnNaming(FieldName, "FirstName"); got != "FirstName" {
		t.Errorf("FieldName strategy changed the name: %q", got)
	}
	if got := applyColumnNaming(SnakeCase, "FirstName"); got != "first_name" {
		t.Errorf("SnakeCase strategy = %q, want first_name", got)
	}
}
