package main

import (
	"fmt"

	"github.com/premstats/premstats/internal/schema"
)

// main prints the provisioning SQL rendered from the schema source of truth.
// Redirect it into scripts/schema.sql after changing internal/schema.
func main() {
	fmt.Print(schema.ProvisioningSQL())
}
