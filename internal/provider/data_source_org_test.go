package provider

import (
	"regexp"
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

func TestAccOrgDataSource_byPath(t *testing.T) {
	srv := testAccServer(t)
	corp := srv.AddOrg(ucs.RootOrgDN, "Corp")
	hr := srv.AddOrg(corp, "HR")
	srv.AddObject(ucs.ClassOrg, hr.Child("org-Payroll"), ucs.Properties{"name": "Payroll", "descr": "payroll team"})

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(srv) + `
data "ucs_org" "root" {
  path = "root"
}

data "ucs_org" "hr" {
  path = "root/Corp/HR"
}

# A bare name is searched anywhere in the hierarchy.
data "ucs_org" "payroll" {
  path = "Payroll"
}`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.ucs_org.root", "dn", "org-root"),
					resource.TestCheckResourceAttr("data.ucs_org.root", "name", "root"),
					resource.TestCheckResourceAttr("data.ucs_org.hr", "dn", "org-root/org-Corp/org-HR"),
					resource.TestCheckResourceAttr("data.ucs_org.hr", "id", "org-root/org-Corp/org-HR"),
					resource.TestCheckResourceAttr("data.ucs_org.hr", "parent_dn", "org-root/org-Corp"),
					resource.TestCheckResourceAttr("data.ucs_org.payroll", "dn", "org-root/org-Corp/org-HR/org-Payroll"),
					resource.TestCheckResourceAttr("data.ucs_org.payroll", "description", "payroll team"),
				),
			},
		},
	})
}

func TestAccOrgDataSource_byDN(t *testing.T) {
	srv := testAccServer(t)
	srv.AddOrg(ucs.RootOrgDN, "HR")

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(srv) + `
data "ucs_org" "hr" {
  dn = "org-root/org-HR"
}`,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.ucs_org.hr", "name", "HR"),
					resource.TestCheckResourceAttr("data.ucs_org.hr", "parent_dn", "org-root"),
				),
			},
		},
	})
}

func TestAccOrgDataSource_errors(t *testing.T) {
	srv := testAccServer(t)

	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: TestProviderConfig(srv) + `
data "ucs_org" "missing" {
  path = "root/Nowhere"
}`,
				ExpectError: regexp.MustCompile(`Organization Not Found`),
			},
			{
				Config: TestProviderConfig(srv) + `
data "ucs_org" "fabric" {
  dn = "fabric/san/A"
}`,
				ExpectError: regexp.MustCompile(`does not name an object of class orgOrg`),
			},
			{
				Config: TestProviderConfig(srv) + `
data "ucs_org" "both" {
  path = "root"
  dn   = "org-root"
}`,
				ExpectError: regexp.MustCompile(`Invalid Attribute Combination`),
			},
		},
	})
}
