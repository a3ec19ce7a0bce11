package provider

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/hashicorp/terraform-plugin-testing/terraform"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func TestAccLANConnPolicyResource_basic(t *testing.T) {
	srv := testAccServer(t)
	name := GenerateTestName()
	dn := "org-root/lan-conn-pol-" + name

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		CheckDestroy:             TestCheckObjectsDestroyed(srv, "ucs_lan_connection_policy"),
		Steps: []resource.TestStep{
			// Create and Read testing
			{
				Config: TestProviderConfig(srv) + testAccLANConnPolicyResourceConfig_basic("root", name),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("ucs_lan_connection_policy.test", "dn", dn),
					resource.TestCheckResourceAttr("ucs_lan_connection_policy.test", "id", dn),
					resource.TestCheckResourceAttr("ucs_lan_connection_policy.test", "vnic.#", "2"),
					TestCheckObjectExists(srv, "ucs_lan_connection_policy.test"),
					func(*terraform.State) error {
						eth0 := srv.Object(ucs.DN(dn + "/ether-eth0"))
						if eth0 == nil {
							return fmt.Errorf("vNIC eth0 of %s was not created", dn)
						}
						if got := eth0.Get("nwTemplName"); got != "vnic-a" {
							return fmt.Errorf("expected eth0 template vnic-a, got %q", got)
						}
						if got := eth0.Get("adaptorProfileName"); got != "VMWare" {
							return fmt.Errorf("expected eth0 adapter policy VMWare, got %q", got)
						}
						if !srv.Exists(ucs.DN(dn + "/ether-eth1")) {
							return fmt.Errorf("vNIC eth1 of %s was not created", dn)
						}
						return nil
					},
				),
			},
			// Rewriting the org path in DN form does not replace the policy
			{
				Config: TestProviderConfig(srv) + testAccLANConnPolicyResourceConfig_basic("org-root", name),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("ucs_lan_connection_policy.test", "dn", dn),
					func(*terraform.State) error {
						if got := srv.Calls("configConfMos"); got != 1 {
							return fmt.Errorf("expected the policy to be kept, got %d configConfMos calls", got)
						}
						return nil
					},
				),
			},
			// ImportState testing
			{
				ResourceName:            "ucs_lan_connection_policy.test",
				ImportState:             true,
				ImportStateId:           dn,
				ImportStateVerify:       true,
				ImportStateVerifyIgnore: []string{"org", "description", "vnic"},
			},
		},
	})
}

func TestAccLANConnPolicyResource_duplicateOrder(t *testing.T) {
	srv := testAccServer(t)

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(srv) + `
resource "ucs_lan_connection_policy" "test" {
  org  = "root"
  name = "dup"
  vnic = [
    { name = "eth0", order = 1 },
    { name = "eth1", order = 1 },
  ]
}`,
				ExpectError: regexp.MustCompile(`Invalid Argument`),
			},
		},
	})
}

func testAccLANConnPolicyResourceConfig_basic(org, name string) string {
	return fmt.Sprintf(`
resource "ucs_lan_connection_policy" "test" {
  org         = %[1]q
  name        = %[2]q
  description = "ESXi hosts"

  vnic = [
    {
      name           = "eth0"
      order          = 1
      template       = "vnic-a"
      adapter_policy = "VMWare"
    },
    {
      name     = "eth1"
      order    = 2
      template = "vnic-b"
    },
  ]
}
`, org, name)
}
