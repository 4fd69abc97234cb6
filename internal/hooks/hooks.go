package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/homekey-labs/homekey/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".homekey.hooks.yml"

// LoadConfig loads the hooks configuration from the working directory.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d, on_lead_submitted: %d)",
		configPath, cfg.Version, len(cfg.Hooks.OnLeadSubmitted))
	return &cfg, nil
}

// Variables holds template variables that can be expanded in hook commands.
type Variables struct {
	LeadID  string
	Name    string
	Email   string
	Phone   string
	Address string
	Slug    string
}

// VariablesFor builds the placeholder values for a lead. Values are quoted
// for sh so an address with spaces stays one argument.
func VariablesFor(l *lead.Lead) Variables {
	return Variables{
		LeadID:  l.ID,
		Name:    shellQuote(l.Contact.Name()),
		Email:   shellQuote(l.Contact.Email),
		Phone:   shellQuote(l.Contact.Phone),
		Address: shellQuote(l.Address.String()),
		Slug:    slug.Make(l.Address.Line),
	}
}

// Result is the outcome of one hook command.
type Result struct {
	Command string
	Output  string
	Err     error
}

// Execute runs a hook command with stdin attached and returns its output.
// Template variables in the command ({{lead_id}}, {{name}}, {{email}},
// {{phone}}, {{address}}, {{slug}}) are expanded before execution.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables, stdin []byte) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if execCtx.Err() == context.DeadlineExceeded {
		return stdout.String(), fmt.Errorf("hook timed out after %ds", timeout)
	}

	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.String(), fmt.Errorf("hook command failed: %w", err)
		}
		return stdout.String(), fmt.Errorf("hook command failed: %w: %s", err, msg)
	}

	if stderr.Len() > 0 {
		logger.Debug("Hook stderr: %s", stderr.String())
	}
	logger.Debug("Hook executed successfully, output length: %d bytes", stdout.Len())
	return stdout.String(), nil
}

// RunLeadSubmitted runs every on_lead_submitted hook in order with the lead
// JSON on stdin. A failing hook is logged and does not stop the rest.
// Only context cancellation aborts the run.
func RunLeadSubmitted(ctx context.Context, cfg *Config, workDir string, l *lead.Lead) ([]Result, error) {
	if cfg == nil || len(cfg.Hooks.OnLeadSubmitted) == 0 || l == nil {
		return nil, nil
	}

	payload, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshaling lead: %w", err)
	}
	vars := VariablesFor(l)

	results := make([]Result, 0, len(cfg.Hooks.OnLeadSubmitted))
	for _, hook := range cfg.Hooks.OnLeadSubmitted {
		if hook == nil || hook.Command == "" {
			continue
		}
		out, err := Execute(ctx, hook, workDir, vars, payload)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		if err != nil {
			logger.Warn("on_lead_submitted hook for lead %s failed: %v", l.ID, err)
		}
		results = append(results, Result{Command: hook.Command, Output: out, Err: err})
	}
	return results, nil
}

// expandVariables replaces {{variable}} placeholders in the command string.
// Substitution is a single pass, so placeholder text inside a value is
// never expanded again.
func expandVariables(command string, vars Variables) string {
	return strings.NewReplacer(
		"{{lead_id}}", vars.LeadID,
		"{{name}}", vars.Name,
		"{{email}}", vars.Email,
		"{{phone}}", vars.Phone,
		"{{address}}", vars.Address,
		"{{slug}}", vars.Slug,
	).Replace(command)
}

// shellQuote wraps s in single quotes for sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
