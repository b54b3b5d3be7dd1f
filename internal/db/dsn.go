package db

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultSQLitePath is where the on-disk database lives when no DSN is
// configured. The directory is created on first connect.
const DefaultSQLitePath = "data/invoices.db"

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN accepts a URL style DSN (postgres://...), a lib/pq key=value
// list, or a plain SQLite file path. Postgres forms are trimmed and cleaned;
// anything else is treated as a SQLite path and receives the busy-timeout
// and foreign-key parameters every handle in this application relies on.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if kvPairRegex.MatchString(s) {
		// Collapse multiple spaces
		fields := strings.Fields(s)
		cleaned := strings.Join(fields, " ")
		// Ensure sslmode present (default disable if missing)
		if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
			cleaned += " sslmode=disable"
		}
		return cleaned
	}
	return sqliteDSN(s)
}

// sqliteDSN appends the SQLite connection parameters this application
// depends on: writes block up to 20s on a busy database instead of failing
// immediately, and foreign keys are enforced.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	var params []string
	if !strings.Contains(path, "_busy_timeout=") {
		params = append(params, "_busy_timeout=20000")
	}
	if !strings.Contains(path, "_foreign_keys=") && !strings.Contains(path, "_fk=") {
		params = append(params, "_foreign_keys=on")
	}
	if len(params) == 0 {
		return path
	}
	return path + sep + strings.Join(params, "&")
}

// IsPostgres reports whether a normalized DSN targets the postgres driver.
func IsPostgres(dsn string) bool {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return true
	}
	return kvPairRegex.MatchString(dsn)
}

// SQLiteFilePath extracts the on-disk file behind a SQLite DSN. The second
// return is false for postgres and memory DSNs, which have no file to copy.
func SQLiteFilePath(dsn string) (string, bool) {
	if dsn == "" || IsPostgres(dsn) {
		return "", false
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return "", false
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "", false
	}
	return path, true
}

// ToURLDSN builds a URL style DSN from key=value form where URL form is
// required (golang-migrate only accepts URLs).
func ToURLDSN(kvDSN string) string {
	if kvDSN == "" {
		return kvDSN
	}
	if strings.HasPrefix(strings.ToLower(kvDSN), "postgres://") {
		return kvDSN
	}
	// parse minimal parts
	m := map[string]string{}
	for _, part := range strings.Fields(kvDSN) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			m[strings.ToLower(kv[0])] = kv[1]
		}
	}
	host := m["host"]
	port := m["port"]
	user := m["user"]
	pass := m["password"]
	dbname := m["dbname"]
	if host == "" || user == "" || dbname == "" {
		return kvDSN
	}
	u := &url.URL{Scheme: "postgres", Host: host}
	if port != "" {
		u.Host = host + ":" + port
	}
	if user != "" {
		if pass != "" {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	u.Path = "/" + dbname
	q := url.Values{}
	if sslm, ok := m["sslmode"]; ok {
		q.Set("sslmode", sslm)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
