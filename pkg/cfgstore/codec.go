package cfgstore

// Typed accessors. The put/get pairs assume s.mu is held; the exported
// Save/Load wrappers take it.

func (s *Store) putBool(f Field, v bool) error {
	if err := s.checkKind(f, KindBool); err != nil {
		return err
	}
	var b byte
	if v {
		b = 1
	}
	s.logger.Debug("save", "field", f.Name, "value", v)
	return s.write(f, []byte{b})
}

func (s *Store) getBool(f Field) bool {
	if err := s.checkKind(f, KindBool); err != nil {
		s.logger.Error("load failed", "error", err)
		return false
	}
	v := s.read(f, 0, 1)[0] != 0
	s.logger.Debug("load", "field", f.Name, "value", v)
	return v
}

func (s *Store) putUint8(f Field, v uint8) error {
	if err := s.checkKind(f, KindUint8); err != nil {
		return err
	}
	s.logger.Debug("save", "field", f.Name, "value", v)
	return s.write(f, []byte{v})
}

func (s *Store) getUint8(f Field) uint8 {
	if err := s.checkKind(f, KindUint8); err != nil {
		s.logger.Error("load failed", "error", err)
		return 0
	}
	v := s.read(f, 0, 1)[0]
	s.logger.Debug("load", "field", f.Name, "value", v)
	return v
}

func (s *Store) putInt8(f Field, v int8) error {
	if err := s.checkKind(f, KindInt8); err != nil {
		return err
	}
	s.logger.Debug("save", "field", f.Name, "value", v)
	return s.write(f, []byte{byte(v)})
}

func (s *Store) getInt8(f Field) int8 {
	if err := s.checkKind(f, KindInt8); err != nil {
		s.logger.Error("load failed", "error", err)
		return 0
	}
	v := int8(s.read(f, 0, 1)[0])
	s.logger.Debug("load", "field", f.Name, "value", v)
	return v
}

func (s *Store) putUint16(f Field, v uint16) error {
	if err := s.checkKind(f, KindUint16); err != nil {
		return err
	}
	s.logger.Debug("save", "field", f.Name, "value", v)
	return s.write(f, []byte{byte(v >> 8), byte(v)})
}

func (s *Store) getUint16(f Field) uint16 {
	if err := s.checkKind(f, KindUint16); err != nil {
		s.logger.Error("load failed", "error", err)
		return 0
	}
	p := s.read(f, 0, 2)
	v := uint16(p[0])<<8 | uint16(p[1])
	s.logger.Debug("load", "field", f.Name, "value", v)
	return v
}

func (s *Store) putString(f Field, v string) error {
	if err := s.checkKind(f, KindString); err != nil {
		return err
	}
	if len(v) > f.MaxLen() {
		s.logger.Warn("skip save", "field", f.Name, "len", len(v), "max", f.MaxLen())
		return ErrValueTooLong
	}
	if f.Sensitive && !s.showSensitive {
		s.logger.Debug("save", "field", f.Name, "len", len(v))
	} else {
		s.logger.Debug("save", "field", f.Name, "len", len(v), "value", v)
	}

	p := make([]byte, 1+len(v))
	p[0] = byte(len(v))
	copy(p[1:], v)
	return s.write(f, p)
}

func (s *Store) getString(f Field) string {
	if err := s.checkKind(f, KindString); err != nil {
		s.logger.Error("load failed", "error", err)
		return ""
	}
	n := int(s.read(f, 0, 1)[0])
	if n == 0 {
		return ""
	}
	if n > f.MaxLen() {
		// Blank storage reads back 0xFF here as well.
		s.logger.Debug("stored length out of range", "field", f.Name, "len", n, "max", f.MaxLen())
		return ""
	}
	v := string(s.read(f, 1, n))
	s.logger.Debug("load", "field", f.Name, "value", s.display(f, v))
	return v
}

// SaveBool stores a bool field.
func (s *Store) SaveBool(f Field, v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putBool(f, v)
}

// LoadBool reads a bool field.
func (s *Store) LoadBool(f Field) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getBool(f)
}

// SaveUint8 stores a uint8 field.
func (s *Store) SaveUint8(f Field, v uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putUint8(f, v)
}

// LoadUint8 reads a uint8 field.
func (s *Store) LoadUint8(f Field) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUint8(f)
}

// SaveInt8 stores an int8 field.
func (s *Store) SaveInt8(f Field, v int8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putInt8(f, v)
}

// LoadInt8 reads an int8 field.
func (s *Store) LoadInt8(f Field) int8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getInt8(f)
}

// SaveUint16 stores a big-endian uint16 field.
func (s *Store) SaveUint16(f Field, v uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putUint16(f, v)
}

// LoadUint16 reads a big-endian uint16 field.
func (s *Store) LoadUint16(f Field) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUint16(f)
}

// SaveString stores a length-prefixed string. A value longer than
// f.MaxLen() is rejected with ErrValueTooLong and the store is untouched.
func (s *Store) SaveString(f Field, v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putString(f, v)
}

// LoadString reads a length-prefixed string. A stored length of zero or
// beyond the field capacity reads as "".
func (s *Store) LoadString(f Field) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getString(f)
}
