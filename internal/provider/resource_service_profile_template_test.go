package provider

import (
	"fmt"
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/hashicorp/terraform-plugin-testing/terraform"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func TestAccServiceProfileTemplateResource_basic(t *testing.T) {
	srv := testAccServer(t)
	name := GenerateTestName()
	dn := "org-root/ls-" + name

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		CheckDestroy:             TestCheckObjectsDestroyed(srv, "ucs_service_profile_template"),
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(srv) + fmt.Sprintf(`
resource "ucs_service_profile_template" "test" {
  org                   = "root"
  name                  = %[1]q
  type                  = "updating-template"
  uuid_pool             = "uuid-esx"
  boot_policy           = "san-boot"
  management_ip_pool    = "ext-mgmt"
  lan_connection_policy = "esx-lan"
  san_connection_policy = "esx-san"
}
`, name),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("ucs_service_profile_template.test", "dn", dn),
					resource.TestCheckResourceAttr("ucs_service_profile_template.test", "bios_policy", "default"),
					resource.TestCheckResourceAttr("ucs_service_profile_template.test", "boot_policy", "san-boot"),
					TestCheckObjectExists(srv, "ucs_service_profile_template.test"),
					func(*terraform.State) error {
						template := srv.Object(ucs.DN(dn))
						expected := map[string]string{
							"type":           "updating-template",
							"identPoolName":  "uuid-esx",
							"bootPolicyName": "san-boot",
							"extIPState":     "pooled",
						}
						for prop, want := range expected {
							if got := template.Get(prop); got != want {
								return fmt.Errorf("expected %s=%q on %s, got %q", prop, want, dn, got)
							}
						}
						connDef := srv.Object(ucs.DN(dn + "/conn-def"))
						if connDef == nil {
							return fmt.Errorf("connectivity definition of %s was not created", dn)
						}
						if got := connDef.Get("lanConnPolicyName"); got != "esx-lan" {
							return fmt.Errorf("expected LAN connectivity policy esx-lan, got %q", got)
						}
						if got := connDef.Get("sanConnPolicyName"); got != "esx-san" {
							return fmt.Errorf("expected SAN connectivity policy esx-san, got %q", got)
						}
						return nil
					},
				),
			},
			{
				ResourceName:      "ucs_service_profile_template.test",
				ImportState:       true,
				ImportStateId:     dn,
				ImportStateVerify: true,
				ImportStateVerifyIgnore: []string{
					"org", "type", "uuid_pool", "bios_policy", "boot_policy", "firmware_policy",
					"local_disk_policy", "management_ip_pool", "lan_connection_policy", "san_connection_policy",
				},
			},
		},
	})
}

func TestAccServiceProfileTemplateResource_adopted(t *testing.T) {
	srv := testAccServer(t)
	name := GenerateTestName()
	dn := ucs.RootOrgDN.Child("ls-" + name)
	srv.AddObject(ucs.ClassServiceProfile, dn, ucs.Properties{"name": name, "type": "initial-template"})

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(srv) + fmt.Sprintf(`
resource "ucs_service_profile_template" "test" {
  org  = "root"
  name = %[1]q
}
`, name),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("ucs_service_profile_template.test", "dn", dn.String()),
					func(*terraform.State) error {
						if got := len(srv.ConfMos()); got != 0 {
							return fmt.Errorf("expected the existing template to be adopted, got %d configConfMos requests", got)
						}
						return nil
					},
				),
			},
		},
	})
}
