package domain

import "strings"

// SameSiteMarker is the site name used when the site is the client's main address.
const SameSiteMarker = "(la stessa)"

type Client struct {
	SiteID     int64
	ClientName string
	SiteName   string
}

// ShortName is the site label, or the client name when the site is the main address.
func (c Client) ShortName() string {
	if c.SiteName == "" || c.SiteName == SameSiteMarker {
		return c.ClientName
	}
	return c.SiteName
}

// Ref converts the catalog client to a row reference.
func (c Client) Ref() ClientRef {
	return ClientRef{SiteID: c.SiteID, ClientName: c.ClientName, SiteName: c.ShortName()}
}

type InterventionType struct {
	ID          int64
	Description string
}

// Name returns the description, or "N/A" when the catalog left it blank.
func (t InterventionType) Name() string {
	return CoalesceStr(strings.TrimSpace(t.Description), "N/A")
}

type Resource struct {
	Username  string
	FirstName string
	LastName  string
}

// Initials derives the two-letter label from first and last name, "?" when both are empty.
func (r Resource) Initials() string {
	var b strings.Builder
	if r.FirstName != "" {
		b.WriteString(strings.ToUpper(string([]rune(r.FirstName)[0])))
	}
	if r.LastName != "" {
		b.WriteString(strings.ToUpper(string([]rune(r.LastName)[0])))
	}
	return CoalesceStr(b.String(), "?")
}

// Ref converts the catalog resource to a row reference.
func (r Resource) Ref() ResourceRef {
	return ResourceRef{
		Username: r.Username,
		Name:     strings.TrimSpace(r.FirstName + " " + r.LastName),
		Initials: r.Initials(),
	}
}

// Catalogs bundles the lookup tables needed to render and edit rows.
type Catalogs struct {
	Clients           []Client
	InterventionTypes []InterventionType
	Resources         []Resource
}

// ClientBySite finds a client by site id.
func (c *Catalogs) ClientBySite(siteID int64) (Client, bool) {
	for _, cl := range c.Clients {
		if cl.SiteID == siteID {
			return cl, true
		}
	}
	return Client{}, false
}

// InterventionTypeByID finds an intervention type by id.
func (c *Catalogs) InterventionTypeByID(id int64) (InterventionType, bool) {
	for _, t := range c.InterventionTypes {
		if t.ID == id {
			return t, true
		}
	}
	return InterventionType{}, false
}

// ResourceByUsername finds a resource by username.
func (c *Catalogs) ResourceByUsername(username string) (Resource, bool) {
	for _, r := range c.Resources {
		if r.Username == username {
			return r, true
		}
	}
	return Resource{}, false
}
