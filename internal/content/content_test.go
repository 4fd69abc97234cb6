package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars Variables
		want string
	}{
		{
			name: "all placeholders",
			text: "{{company}} | {{phone}} | {{first_name}}",
			vars: Variables{Company: "Acme Homes", Phone: "555-1234", FirstName: "Dana"},
			want: "Acme Homes | 555-1234 | Dana",
		},
		{
			name: "missing first name",
			text: "Thanks, {{first_name}}!",
			vars: Variables{FirstName: "  "},
			want: "Thanks, there!",
		},
		{
			name: "repeated placeholder",
			text: "{{company}} and {{company}}",
			vars: Variables{Company: "Acme"},
			want: "Acme and Acme",
		},
		{
			name: "unknown placeholder is left alone",
			text: "{{unknown}} {{phone}}",
			vars: Variables{Phone: "555"},
			want: "{{unknown}} 555",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Render(tt.text, tt.vars))
		})
	}
}

func TestDefault_IsComplete(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.NotEmpty(t, c.Hero.Headline)
	assert.NotEmpty(t, c.ValueProps)
	assert.Len(t, c.Steps, 3)
	assert.NotEmpty(t, c.Badges)
	assert.NotEmpty(t, c.FAQ)
	assert.Contains(t, c.Success.Title, "{{first_name}}")
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestLoad_OverridesOnlyWhatIsSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
hero:
  headline: We buy houses in Springfield
faq:
  - question: Do you buy condos?
    answer: Yes.
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "We buy houses in Springfield", c.Hero.Headline)
	assert.Equal(t, def.Hero.Subheadline, c.Hero.Subheadline, "unset fields keep defaults")
	assert.Equal(t, def.Steps, c.Steps)
	require.Len(t, c.FAQ, 1, "lists replace the defaults")
	assert.Equal(t, "Do you buy condos?", c.FAQ[0].Question)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("hero: [unclosed"), 0644))
	_, err = Load(bad)
	require.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yml")
	require.NoError(t, os.WriteFile(invalid, []byte("faq:\n  - answer: no question\n"), 0644))
	_, err = Load(invalid)
	require.ErrorContains(t, err, "faq[0]")
}

func TestWithBusiness(t *testing.T) {
	c := Default().WithBusiness("Acme Homes", "")
	assert.Equal(t, "Acme Homes", c.Company)
	assert.Equal(t, Default().Phone, c.Phone, "blank values keep the current phone")
	assert.Equal(t, "Call Acme Homes", c.R("Call {{company}}"))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yml")
	require.NoError(t, os.WriteFile(path, []byte("splash: first\n"), 0644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(path, []byte("splash: second\n"), 0644))

	select {
	case c := <-w.Updates():
		assert.Equal(t, "second", c.Splash)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for content reload")
	}

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "stop is idempotent")
}

func TestWatcher_IgnoresOtherFilesAndBadContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yml")
	require.NoError(t, os.WriteFile(path, []byte("splash: first\n"), 0644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yml"), []byte("x: 1\n"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("hero: [unclosed"), 0644))

	select {
	case c := <-w.Updates():
		t.Fatalf("unexpected reload: %+v", c)
	case <-time.After(400 * time.Millisecond):
	}
}
