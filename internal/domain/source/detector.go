package source

import "spendflix/internal/domain/account"

// Detect matches a file's header row against the registry. The supplied
// headers are reduced to the same sorted pipe-joined key used to index the
// configs, so detection is an exact set match: extra or missing columns mean
// no match.
func (r *TypeRegistry) Detect(headers []string) (*TypeConfig, error) {
	if cfg, ok := r.byKey[headerKey(headers)]; ok {
		return cfg, nil
	}
	return nil, &DetectionError{Headers: headers}
}

// CheckCompatibility rejects a detected type that conflicts with the schema
// configured on the account. Accounts with no expected type accept any known
// schema.
func CheckCompatibility(acct *account.Account, detected *TypeConfig) error {
	if acct.ExpectedSourceType == "" || acct.ExpectedSourceType == detected.ID {
		return nil
	}
	return &CompatibilityError{
		AccountID: acct.ID,
		Expected:  acct.ExpectedSourceType,
		Detected:  detected.ID,
	}
}
