package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// CheckCatalogCompatibility checks that the indicator catalog shipped with the
// binary can serve a configuration pinned to the requested catalog version.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - An empty requested version means the configuration is not pinned
//   - "main" on either side (development build) skips the check
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
//
// Examples:
//   - Catalog 1.0.0, Requested 1.0.0 -> OK (exact match)
//   - Catalog 1.0.1, Requested 1.0.0 -> OK (patch differs)
//   - Catalog 1.1.0, Requested 1.0.0 -> ERROR (minor differs, columns were added)
//   - Catalog 2.0.0, Requested 1.0.0 -> ERROR (major differs, columns changed)
//   - Catalog 1.0.0, Requested "" -> OK (not pinned)
func CheckCatalogCompatibility(catalogVersion, requestedVersion string) error {
	if requestedVersion == "" {
		return nil
	}

	catalogVersion = strings.TrimPrefix(catalogVersion, "v")
	requestedVersion = strings.TrimPrefix(requestedVersion, "v")

	if catalogVersion == "main" || requestedVersion == "main" {
		return nil
	}

	catalogSemver, err := semver.NewVersion(catalogVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid catalog version '%s'", catalogVersion)
	}

	requestedSemver, err := semver.NewVersion(requestedVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid requested catalog version '%s'", requestedVersion)
	}

	if catalogSemver.Major() != requestedSemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: indicator catalog is %d.x.x but configuration requires %d.x.x",
			catalogSemver.Major(), requestedSemver.Major())
	}

	if catalogSemver.Minor() != requestedSemver.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "minor version mismatch: indicator catalog is %d.%d.x but configuration requires %d.%d.x",
			catalogSemver.Major(), catalogSemver.Minor(),
			requestedSemver.Major(), requestedSemver.Minor())
	}

	return nil
}
