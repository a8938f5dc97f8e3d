package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "attribute_order_preserved",
			in:   `{"zeta": "z", "name": "sku", "alpha": "a", "value": "v"}`,
			want: `{"zeta":"z","name":"sku","alpha":"a","value":"v"}`,
		},
		{
			name: "unknown_attributes_kept_verbatim",
			in:   `{"name": "sku", "count": 1.50, "nested": {"keep": [1, 2]}, "value": "v"}`,
			want: `{"name":"sku","count":1.50,"nested":{"keep": [1, 2]},"value":"v"}`,
		},
		{
			name: "html_characters_not_escaped",
			in:   `{"name": "desc", "value": "<b>a & b</b>"}`,
			want: `{"name":"desc","value":"<b>a & b</b>"}`,
		},
		{
			name: "non_ascii_not_escaped",
			in:   `{"name": "città", "value": "naïve ✓"}`,
			want: `{"name":"città","value":"naïve ✓"}`,
		},
		{
			name: "duplicate_attribute_keeps_first_position_last_value",
			in:   `{"name": "sku", "value": "first", "other": 1, "value": "second"}`,
			want: `{"name":"sku","value":"second","other":1}`,
		},
		{
			name: "empty_object",
			in:   `{}`,
			want: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry Entry
			err := json.Unmarshal([]byte(tt.in), &entry)
			require.NoError(t, err, "unmarshaling entry should not fail")

			out, err := json.Marshal(&entry)
			require.NoError(t, err, "marshaling entry should not fail")
			assert.Equal(t, tt.want, string(out), "re-encoded entry should match expected")
		})
	}
}

func TestEntry_Accessors(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantName  string
		nameOK    bool
		wantValue string
		valueOK   bool
	}{
		{
			name:      "both_attributes_present",
			in:        `{"name": "sku", "value": "HP-123"}`,
			wantName:  "sku",
			nameOK:    true,
			wantValue: "HP-123",
			valueOK:   true,
		},
		{
			name:   "value_absent",
			in:     `{"name": "sku"}`,
			nameOK: true,
		},
		{
			name:    "name_absent",
			in:      `{"value": "HP-123"}`,
			valueOK: true,
		},
		{
			name: "name_not_a_string",
			in:   `{"name": 42, "value": true}`,
		},
		{
			name:    "empty_string_name_is_still_a_name",
			in:      `{"name": "", "value": ""}`,
			nameOK:  true,
			valueOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry Entry
			require.NoError(t, json.Unmarshal([]byte(tt.in), &entry), "unmarshaling entry should not fail")

			name, ok := entry.Name()
			assert.Equal(t, tt.nameOK, ok, "name presence should match expected")
			if tt.nameOK {
				assert.Equal(t, tt.wantName, name, "name should match expected")
			}

			value, ok := entry.Value()
			assert.Equal(t, tt.valueOK, ok, "value presence should match expected")
			if tt.valueOK {
				assert.Equal(t, tt.wantValue, value, "value should match expected")
			}
		})
	}
}

func TestEntry_SetValue(t *testing.T) {
	t.Run("keeps_position_of_existing_value", func(t *testing.T) {
		var entry Entry
		require.NoError(t, json.Unmarshal([]byte(`{"value": "old", "name": "sku"}`), &entry))

		entry.SetValue("new")

		out, err := json.Marshal(&entry)
		require.NoError(t, err)
		assert.Equal(t, `{"value":"new","name":"sku"}`, string(out), "value attribute should keep its slot")
	})

	t.Run("appends_when_value_absent", func(t *testing.T) {
		var entry Entry
		require.NoError(t, json.Unmarshal([]byte(`{"name": "sku"}`), &entry))

		entry.SetValue("added")

		out, err := json.Marshal(&entry)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"sku","value":"added"}`, string(out), "value attribute should be appended last")
	})

	t.Run("encodes_without_html_escaping", func(t *testing.T) {
		var entry Entry
		require.NoError(t, json.Unmarshal([]byte(`{"name": "sku", "value": "x"}`), &entry))

		entry.SetValue(`<tag> & "quote" ® ✓`)

		value, ok := entry.Value()
		require.True(t, ok, "value should read back")
		assert.Equal(t, `<tag> & "quote" ® ✓`, value, "value should round-trip exactly")

		out, err := json.Marshal(&entry)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"sku","value":"<tag> & \"quote\" ® ✓"}`, string(out), "only JSON metacharacters should be escaped")
	})
}

func TestEntry_UnmarshalRejectsNonObjects(t *testing.T) {
	for _, in := range []string{`[1]`, `"text"`, `42`, `null`} {
		var entry Entry
		err := json.Unmarshal([]byte(in), &entry)
		assert.Error(t, err, "input %s should be rejected", in)
	}
}
