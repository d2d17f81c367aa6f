package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"srv_contratos/models"
	"srv_contratos/validators"
)

// variableRegex matches {{variable}} placeholders, tolerating inner spaces
var variableRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// RenderTemplate replaces {{variable}} placeholders with values.
// Placeholders without a value are left in place and reported, sorted and deduplicated.
func RenderTemplate(content string, values map[string]string) (string, []string) {
	missing := map[string]struct{}{}
	rendered := variableRegex.ReplaceAllStringFunc(content, func(match string) string {
		key := variableRegex.FindStringSubmatch(match)[1]
		if value, ok := values[key]; ok && value != "" {
			return value
		}
		missing[key] = struct{}{}
		return match
	})
	return rendered, sortedKeys(missing)
}

// PlaceholderNames lists the distinct placeholders used in content
func PlaceholderNames(content string) []string {
	seen := map[string]struct{}{}
	for _, m := range variableRegex.FindAllStringSubmatch(content, -1) {
		seen[m[1]] = struct{}{}
	}
	return sortedKeys(seen)
}

// NormalizeVariableName accepts "cpf" or "{{cpf}}"
func NormalizeVariableName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "{{")
	name = strings.TrimSuffix(name, "}}")
	return strings.TrimSpace(name)
}

// EntityTemplateValues builds the placeholder values for a party's qualification.
// Free-form attributes are exposed under their own keys.
func EntityTemplateValues(e *models.Entity) map[string]string {
	values := map[string]string{}
	for k, v := range e.Attributes {
		if v == nil {
			continue
		}
		values[k] = fmt.Sprint(v)
	}

	values["nome"] = e.Name
	values["nome_parte"] = e.Name
	values["cpf"] = validators.FormatCPF(deref(e.PersonTaxID))
	values["rg"] = validators.FormatRG(deref(e.IdentityDocument))
	values["cnpj"] = validators.FormatCNPJ(deref(e.OrganizationTaxID))
	values["endereco"] = deref(e.Address)
	if cep, ok := values["cep"]; ok {
		values["cep"] = validators.FormatCEP(cep)
	}
	return values
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
