/*
MIT License

# Copyright (c) 2025 OcomSoft

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package naming

import "testing"

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"todos", "Todos"},
		{"user_profiles", "UserProfiles"},
		{"api-key", "ApiKey"},
		{"Already Mixed", "AlreadyMixed"},
	}

	for _, tt := range tests {
		if got := Pascal(tt.input); got != tt.expected {
			t.Errorf("Pascal(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"due_date", "dueDate"},
		{"id", "id"},
		{"created_at", "createdAt"},
		{"project_id", "projectId"},
	}

	for _, tt := range tests {
		if got := Camel(tt.input); got != tt.expected {
			t.Errorf("Camel(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"fix-index", "fix_index"},
		{"seed", "seed"},
	}

	for _, tt := range tests {
		if got := Snake(tt.input); got != tt.expected {
			t.Errorf("Snake(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestEntityName(t *testing.T) {
	tests := []struct {
		table    string
		expected string
	}{
		{"todos", "Todo"},
		{"user_roles", "UserRole"},
		{"audit_log", "AuditLog"},
		{"people", "Person"},
		{"categories", "Category"},
	}

	for _, tt := range tests {
		if got := EntityName(tt.table); got != tt.expected {
			t.Errorf("EntityName(%q) = %q, expected %q", tt.table, got, tt.expected)
		}
	}
}

func TestServiceName(t *testing.T) {
	tests := []struct {
		table    string
		expected string
	}{
		{"todos", "TodosService"},
		{"user_roles", "UserRolesService"},
	}

	for _, tt := range tests {
		if got := ServiceName(tt.table); got != tt.expected {
			t.Errorf("ServiceName(%q) = %q, expected %q", tt.table, got, tt.expected)
		}
	}
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		column   string
		expected string
	}{
		{"user_id", "userId"},
		{"class", "class_"},
		{"default", "default_"},
		{"title", "title"},
	}

	for _, tt := range tests {
		if got := FieldName(tt.column); got != tt.expected {
			t.Errorf("FieldName(%q) = %q, expected %q", tt.column, got, tt.expected)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		legal bool
	}{
		{"findByTitle", true},
		{"_private", true},
		{"$ref", true},
		{"2fast", false},
		{"for", false},
		{"with-dash", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsIdentifier(tt.name); got != tt.legal {
			t.Errorf("IsIdentifier(%q) = %v, expected %v", tt.name, got, tt.legal)
		}
	}
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		column   string
		expected string
	}{
		{"title", "title"},
		{"order", "order"},
		{"default", "'default'"},
		{"group name", "'group name'"},
	}

	for _, tt := range tests {
		if got := PropertyName(tt.column); got != tt.expected {
			t.Errorf("PropertyName(%q) = %q, expected %q", tt.column, got, tt.expected)
		}
	}
}
