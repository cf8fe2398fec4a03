package validator

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/apibuilder/apibuilder-cli/internal/appconfig"
	"github.com/apibuilder/apibuilder-cli/internal/config"
)

// CheckLocation reports a pending legacy migration as a warning.
func CheckLocation(r *Result, loc appconfig.Location) {
	if !loc.NeedsMigration() {
		return
	}
	r.Add(Issue{
		Severity: SeverityWarning,
		Message:  "configuration file uses a deprecated location and will be moved on the next run",
		Value:    loc.Found,
		Context:  map[string]string{"canonical": loc.Path},
	})
}

// CheckLoad converts an error from loading or building the project config
// into an error issue that names the offending field.
func CheckLoad(r *Result, err error) {
	if err == nil {
		return
	}

	var (
		ge *appconfig.GeneratorError
		pe *appconfig.ProjectError
		se *appconfig.SettingsError
	)
	switch {
	case errors.As(err, &ge):
		field := "code." + ge.Org + "." + ge.Project + ".generators"
		if ge.Generator != "" {
			field += "." + ge.Generator
		}
		msg := ge.Err.Error()
		if ge.Reason != "" {
			msg += ": " + ge.Reason
		}
		r.Add(Issue{
			Severity: SeverityError,
			Field:    field,
			Message:  msg,
			Context:  map[string]string{"org": ge.Org, "project": ge.Project, "generator": ge.Generator},
		})
	case errors.As(err, &pe):
		r.Add(Issue{
			Severity: SeverityError,
			Field:    projectField(pe),
			Message:  pe.Err.Error(),
			Context:  map[string]string{"org": pe.Org, "project": pe.Project},
		})
	case errors.As(err, &se):
		msg := "unrecognized keys"
		if se.Reason != "" {
			msg = se.Reason
		}
		var value any
		if len(se.Keys) > 0 {
			value = strings.Join(se.Keys, ", ")
		}
		r.AddError("settings", msg, value)
	case errors.Is(err, appconfig.ErrInvalidAttributes):
		r.AddError("attributes", err.Error(), nil)
	default:
		r.AddError("", err.Error(), nil)
	}
}

func projectField(pe *appconfig.ProjectError) string {
	field := "code." + pe.Org + "." + pe.Project
	switch {
	case errors.Is(pe.Err, appconfig.ErrMissingVersion):
		return field + ".version"
	case errors.Is(pe.Err, appconfig.ErrMissingGenerators), errors.Is(pe.Err, appconfig.ErrNoGeneratorsDefined):
		return field + ".generators"
	}
	return field
}

// CheckConfig inspects a successfully built config for problems that do not
// prevent loading.
func CheckConfig(r *Result, cfg *appconfig.Config) {
	if cfg == nil {
		return
	}

	used := map[string]bool{}
	targets := map[[2]string]string{}
	for p, g := range cfg.Generators() {
		for _, rule := range appconfig.MatchingRules(g.Name, cfg.Attributes) {
			used[rule.Pattern] = true
		}
		field := "code." + p.Org + "." + p.Name + ".generators." + g.Name
		for _, target := range g.Targets {
			if filepath.IsAbs(target) {
				r.AddWarning(field, "target is absolute; targets are relative to the project directory", target)
			}
			key := [2]string{p.Key(), target}
			if prev, dup := targets[key]; dup {
				r.AddWarning(field, "target is also written by generator "+prev, target)
				continue
			}
			targets[key] = g.Name
		}
	}

	for _, rule := range cfg.Attributes {
		if !used[rule.Pattern] {
			r.AddInfo("attributes.generators", "pattern matches no generator", rule.Pattern)
		}
	}
}

// CheckGlobal adds the problems found in the user configuration.
func CheckGlobal(r *Result, cfg *config.Config) {
	for _, err := range config.Validate(cfg) {
		var pe *config.ProfileError
		if errors.As(err, &pe) {
			field := "profiles." + pe.Profile + "." + pe.Field
			if errors.Is(pe.Err, config.ErrUnknownProfile) {
				field = pe.Field
			}
			r.Add(Issue{
				Severity: SeverityError,
				Field:    field,
				Message:  pe.Err.Error(),
				Context:  map[string]string{"profile": pe.Profile},
			})
			continue
		}
		if errors.Is(err, config.ErrInvalidRetention) {
			r.AddError("backup_retention", err.Error(), nil)
			continue
		}
		r.AddError("", err.Error(), nil)
	}
}
