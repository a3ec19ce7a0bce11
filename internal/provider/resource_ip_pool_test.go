package provider

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/hashicorp/terraform-plugin-testing/terraform"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func TestAccIPPoolResource_basic(t *testing.T) {
	srv := testAccServer(t)
	name := GenerateTestName()
	dn := "org-root/ip-pool-" + name

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		CheckDestroy:             TestCheckObjectsDestroyed(srv, "ucs_ip_pool"),
		Steps: []resource.TestStep{
			// Create and Read testing
			{
				Config: TestProviderConfig(srv) + testAccIPPoolResourceConfig_basic("root", name),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("ucs_ip_pool.test", "name", name),
					resource.TestCheckResourceAttr("ucs_ip_pool.test", "dn", dn),
					resource.TestCheckResourceAttr("ucs_ip_pool.test", "id", dn),
					resource.TestCheckResourceAttr("ucs_ip_pool.test", "assignment_order", "sequential"),
					resource.TestCheckResourceAttr("ucs_ip_pool.test", "blocks.#", "2"),
					TestCheckObjectExists(srv, "ucs_ip_pool.test"),
					func(*terraform.State) error {
						if !srv.Exists(ucs.DN(dn + "/block-10.10.0.1-10.10.0.100")) {
							return fmt.Errorf("first block of %s was not created", dn)
						}
						if !srv.Exists(ucs.DN(dn + "/block-10.10.1.1-10.10.1.16")) {
							return fmt.Errorf("sized block of %s was not created", dn)
						}
						// Pool and blocks travel in one request.
						if got := len(srv.ConfMos()); got != 1 {
							return fmt.Errorf("expected 1 configConfMos request, got %d", got)
						}
						return nil
					},
				),
			},
			// ImportState testing
			{
				ResourceName:            "ucs_ip_pool.test",
				ImportState:             true,
				ImportStateId:           dn,
				ImportStateVerify:       true,
				ImportStateVerifyIgnore: []string{"org", "description", "assignment_order", "blocks"},
			},
		},
	})
}

func TestAccIPPoolResource_bareOrgName(t *testing.T) {
	srv := testAccServer(t)
	corp := srv.AddOrg(ucs.RootOrgDN, "Corp")
	srv.AddOrg(corp, "HR")
	name := GenerateTestName()

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		CheckDestroy:             TestCheckObjectsDestroyed(srv, "ucs_ip_pool"),
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(srv) + testAccIPPoolResourceConfig_basic("HR", name),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("ucs_ip_pool.test", "dn", "org-root/org-Corp/org-HR/ip-pool-"+name),
					TestCheckObjectExists(srv, "ucs_ip_pool.test"),
				),
			},
		},
	})
}

func TestAccIPPoolResource_missingOrg(t *testing.T) {
	srv := testAccServer(t)

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config:      TestProviderConfig(srv) + testAccIPPoolResourceConfig_basic("root/Nowhere", GenerateTestName()),
				ExpectError: regexp.MustCompile(`does not exist on UCS Manager`),
			},
		},
	})
}

func TestAccIPPoolResource_disappears(t *testing.T) {
	srv := testAccServer(t)
	name := GenerateTestName()

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(srv) + testAccIPPoolResourceConfig_basic("root", name),
				Check: resource.ComposeAggregateTestCheckFunc(
					TestCheckObjectExists(srv, "ucs_ip_pool.test"),
					TestRemoveObject(t, srv, "ucs_ip_pool.test"),
				),
				ExpectNonEmptyPlan: true,
			},
		},
	})
}

func TestAccIPPoolResource_invalidBlock(t *testing.T) {
	srv := testAccServer(t)

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(srv) + `
resource "ucs_ip_pool" "test" {
  org  = "root"
  name = "overlap"
  blocks = [
    { from = "10.0.0.1", to = "10.0.0.20" },
    { from = "10.0.0.10", size = 5 },
  ]
}`,
				ExpectError: regexp.MustCompile(`overlaps`),
			},
		},
	})
}

func testAccIPPoolResourceConfig_basic(org, name string) string {
	return fmt.Sprintf(`
resource "ucs_ip_pool" "test" {
  org         = %[1]q
  name        = %[2]q
  description = "managed by terraform"

  blocks = [
    {
      from            = "10.10.0.1"
      to              = "10.10.0.100"
      default_gateway = "10.10.0.254"
      subnet_mask     = "255.255.255.0"
      primary_dns     = "10.0.0.53"
    },
    {
      from = "10.10.1.1"
      size = 16
    },
  ]
}
`, org, name)
}
