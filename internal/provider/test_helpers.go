package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/hashicorp/terraform-plugin-testing/terraform"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
	"github.com/isometry/terraform-provider-ucs/internal/ucs/ucstest"
)

// Test object name prefix to avoid conflicts.
const TestNamePrefix = "tf-"

// IsAccTest returns true if acceptance tests should run.
func IsAccTest() bool {
	return os.Getenv("TF_ACC") != ""
}

// SkipIfNotAccTest skips the test if TF_ACC is not set.
func SkipIfNotAccTest(t *testing.T) {
	if !IsAccTest() {
		t.Skip("Skipping acceptance test - set TF_ACC=1 to run")
	}
}

// testAccServer starts an in-memory UCS Manager for an acceptance test.
func testAccServer(t *testing.T) *ucstest.Server {
	SkipIfNotAccTest(t)
	return ucstest.NewServer(t)
}

// TestProviderConfig generates provider configuration pointing at srv.
func TestProviderConfig(srv *ucstest.Server) string {
	config := srv.Config()

	var providerConfig strings.Builder
	providerConfig.WriteString("provider \"ucs\" {\n")
	providerConfig.WriteString(fmt.Sprintf("  hostname     = %q\n", config.Host))
	providerConfig.WriteString(fmt.Sprintf("  port         = %d\n", config.Port))
	providerConfig.WriteString("  secure       = false\n")
	providerConfig.WriteString(fmt.Sprintf("  username     = %q\n", config.Username))
	providerConfig.WriteString(fmt.Sprintf("  password     = %q\n", config.Password))
	providerConfig.WriteString("  dial_retries = 0\n")
	providerConfig.WriteString("}\n")
	return providerConfig.String()
}

// GenerateTestName generates a unique object name that fits UCS Manager's
// 32 character limit.
func GenerateTestName() string {
	return TestNamePrefix + uuid.New().String()[:8]
}

// Test check functions for acceptance tests

// TestCheckObjectExists verifies that the object named by the resource's dn
// exists on srv.
func TestCheckObjectExists(srv *ucstest.Server, resourceName string) resource.TestCheckFunc {
	return func(s *terraform.State) error {
		rs, ok := s.RootModule().Resources[resourceName]
		if !ok {
			return fmt.Errorf("resource not found: %s", resourceName)
		}

		dn := rs.Primary.Attributes["dn"]
		if dn == "" {
			return fmt.Errorf("resource dn not set")
		}
		if !srv.Exists(ucs.DN(dn)) {
			return fmt.Errorf("object %s does not exist", dn)
		}
		return nil
	}
}

// TestCheckObjectsDestroyed verifies that no object of the given resource
// type is left on srv.
func TestCheckObjectsDestroyed(srv *ucstest.Server, resourceType string) resource.TestCheckFunc {
	return func(s *terraform.State) error {
		for _, rs := range s.RootModule().Resources {
			if rs.Type != resourceType {
				continue
			}
			if dn := rs.Primary.Attributes["dn"]; dn != "" && srv.Exists(ucs.DN(dn)) {
				return fmt.Errorf("object %s still exists", dn)
			}
		}
		return nil
	}
}

// TestRemoveObject deletes the object named by the resource's dn behind
// Terraform's back.
func TestRemoveObject(t *testing.T, srv *ucstest.Server, resourceName string) resource.TestCheckFunc {
	return func(s *terraform.State) error {
		rs, ok := s.RootModule().Resources[resourceName]
		if !ok {
			return fmt.Errorf("resource not found: %s", resourceName)
		}
		return removeObject(t, srv, ucs.DN(rs.Primary.Attributes["dn"]))
	}
}

// removeObject deletes the object at dn through a session of its own.
func removeObject(t *testing.T, srv *ucstest.Server, dn ucs.DN) error {
	registry := ucs.NewSessionRegistry()
	defer func() { _ = registry.Close(context.Background()) }()

	session, err := registry.Acquire(t.Context(), srv.Config())
	if err != nil {
		return err
	}
	mo, err := session.ResolveDN(t.Context(), dn)
	if err != nil || mo == nil {
		return fmt.Errorf("object %s not found: %v", dn, err)
	}
	return session.Remove(t.Context(), mo)
}
