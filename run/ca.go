package run

// Bundled CA certificates, for binaries running in containers without a
// system certificate store
import _ "golang.org/x/crypto/x509roots/fallback"
