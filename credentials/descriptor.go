package credentials

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DatabaseSettings holds the fixed parts of a Quantum DB descriptor.
type DatabaseSettings struct {
	Port                  int
	Tenant                string
	HostNameInCertificate string
	LoginTimeout          time.Duration
}

// DefaultDatabaseSettings targets Azure SQL Database.
var DefaultDatabaseSettings = DatabaseSettings{
	Port:                  1433,
	Tenant:                "quantum",
	HostNameInCertificate: "*.database.windows.net",
	LoginTimeout:          30 * time.Second,
}

// Descriptor describes a Quantum DB connection. It is a value type: deriving
// a variant never changes the original.
type Descriptor struct {
	Host                  string
	Port                  int
	Database              string
	User                  string
	Tenant                string
	Password              string
	HostNameInCertificate string
	LoginTimeout          time.Duration
	ReadOnly              bool
}

func NewDescriptor(host, database, user, password string, s DatabaseSettings) Descriptor {
	return Descriptor{
		Host:                  host,
		Port:                  s.Port,
		Database:              database,
		User:                  user,
		Tenant:                s.Tenant,
		Password:              password,
		HostNameInCertificate: s.HostNameInCertificate,
		LoginTimeout:          s.LoginTimeout,
	}
}

// WithReadOnly returns a copy that asks the server for a read-only replica.
func (d Descriptor) WithReadOnly() Descriptor {
	d.ReadOnly = true
	return d
}

// Login is the SQL login, qualified with the tenant when one is set.
func (d Descriptor) Login() string {
	if d.Tenant == "" {
		return d.User
	}
	return d.User + "@" + d.Tenant
}

// ConnectionString renders the JDBC form of the descriptor, password included.
// Option order and casing are fixed.
func (d Descriptor) ConnectionString() string {
	return d.render(d.Password)
}

// Redacted renders the JDBC form with the password masked.
func (d Descriptor) Redacted() string {
	return d.render("****")
}

// String is Redacted so descriptors are safe to log.
func (d Descriptor) String() string {
	return d.Redacted()
}

func (d Descriptor) render(password string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "jdbc:sqlserver://%s:%d", d.Host, d.Port)
	b.WriteString(";database=" + d.Database)
	b.WriteString(";user=" + d.Login())
	b.WriteString(";password=" + password)
	b.WriteString(";encrypt=true")
	b.WriteString(";trustServerCertificate=false")
	b.WriteString(";hostNameInCertificate=" + d.HostNameInCertificate)
	fmt.Fprintf(&b, ";loginTimeout=%d", d.loginTimeoutSeconds())
	b.WriteString(";MultiSubnetFailover=True")
	if d.ReadOnly {
		b.WriteString(";applicationIntent=ReadOnly")
	}
	return b.String()
}

// DSN renders the descriptor as a sqlserver:// URL for go-mssqldb.
func (d Descriptor) DSN() string {
	q := url.Values{}
	q.Set("database", d.Database)
	q.Set("encrypt", "true")
	q.Set("TrustServerCertificate", "false")
	q.Set("hostNameInCertificate", d.HostNameInCertificate)
	q.Set("dial timeout", strconv.Itoa(d.loginTimeoutSeconds()))
	q.Set("MultiSubnetFailover", "true")
	if d.ReadOnly {
		q.Set("ApplicationIntent", "ReadOnly")
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(d.Login(), d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (d Descriptor) loginTimeoutSeconds() int {
	return int(d.LoginTimeout / time.Second)
}
