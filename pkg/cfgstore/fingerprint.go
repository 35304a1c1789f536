package cfgstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrNoIdentity indicates the store has no Identity to derive a fingerprint from.
var ErrNoIdentity = errors.New("cfgstore: no identity source")

// Fingerprint derives the device fingerprint: each unique ID byte in
// decimal, a space, the upper-case MAC, base64-encoded.
func Fingerprint(uniqueID []byte, mac net.HardwareAddr) string {
	var b strings.Builder
	for _, v := range uniqueID {
		b.WriteString(strconv.Itoa(int(v)))
	}
	b.WriteByte(' ')
	b.WriteString(strings.ToUpper(mac.String()))
	return base64.StdEncoding.EncodeToString([]byte(b.String()))
}

// UpdateFingerprint recomputes the fingerprint and overwrites the stored one.
func (s *Store) UpdateFingerprint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putFingerprint()
}

func (s *Store) putFingerprint() (string, error) {
	if s.ident == nil {
		return "", ErrNoIdentity
	}
	id, err := s.ident.UniqueID()
	if err != nil {
		return "", fmt.Errorf("cfgstore: unique id: %w", err)
	}
	mac, err := s.ident.MAC()
	if err != nil {
		return "", fmt.Errorf("cfgstore: mac address: %w", err)
	}

	fp := Fingerprint(id, mac)
	if err := s.putString(FieldFingerprint, fp); err != nil {
		return "", err
	}
	s.logger.Info("device fingerprint", "mac", strings.ToUpper(mac.String()), "fingerprint", fp)
	return fp, nil
}
