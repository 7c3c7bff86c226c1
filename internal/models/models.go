package models

// Record is one row of the inventory table. Every descriptive field is an
// opaque string; the store assigns the id. Field names mirror the column
// names the frontend already posts, including the German ones.
type Record struct {
	ID             int64  `json:"id"`
	ServerName     string `json:"servername"`
	IP             string `json:"ip"`
	Netmask        string `json:"netmask"`
	NetZone        string `json:"netzzone"`
	Environment    string `json:"environment"`
	OS             string `json:"os"`
	KernelVersion  string `json:"kernel_version"`
	ApplicationID  string `json:"application_id"`
	AV             string `json:"av"`
	BV             string `json:"bv"`
	Virtualization string `json:"virtualisierung"`
	Hardware       string `json:"hardware"`
	Firmware       string `json:"firmware"`
	CPU            string `json:"cpu"`
	Memory         string `json:"memory"`
	CMDBStatus     string `json:"cmdb_status"`
	Uptime         string `json:"uptime"`
	LastUpdate     string `json:"lastupdate"`
}

// Summary is the projection returned by list and read-one.
type Summary struct {
	ID            int64  `json:"id"`
	ServerName    string `json:"servername"`
	OS            string `json:"os"`
	Environment   string `json:"environment"`
	ApplicationID string `json:"application_id"`
}

// UpdatableColumns is the allow-list of column names a partial update may
// reference. Anything else is rejected before SQL is built; the id column
// is deliberately absent.
var UpdatableColumns = map[string]bool{
	"servername":      true,
	"ip":              true,
	"netmask":         true,
	"netzzone":        true,
	"environment":     true,
	"os":              true,
	"kernel_version":  true,
	"application_id":  true,
	"av":              true,
	"bv":              true,
	"virtualisierung": true,
	"hardware":        true,
	"firmware":        true,
	"cpu":             true,
	"memory":          true,
	"cmdb_status":     true,
	"uptime":          true,
	"lastupdate":      true,
}

// MissingFields returns the JSON names of descriptive fields that are
// empty. Create requires all of them.
func (r *Record) MissingFields() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"servername", r.ServerName},
		{"ip", r.IP},
		{"netmask", r.Netmask},
		{"netzzone", r.NetZone},
		{"environment", r.Environment},
		{"os", r.OS},
		{"kernel_version", r.KernelVersion},
		{"application_id", r.ApplicationID},
		{"av", r.AV},
		{"bv", r.BV},
		{"virtualisierung", r.Virtualization},
		{"hardware", r.Hardware},
		{"firmware", r.Firmware},
		{"cpu", r.CPU},
		{"memory", r.Memory},
		{"cmdb_status", r.CMDBStatus},
		{"uptime", r.Uptime},
		{"lastupdate", r.LastUpdate},
	}

	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
