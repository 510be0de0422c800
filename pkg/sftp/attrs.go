// Copyright (c) 2026 PureCrypt Contributors
//
// This file is part of go-purecrypt.
//
// go-purecrypt is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@purecrypt.io for commercial licensing options.

package sftp

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/purecrypt/go-purecrypt/internal/sshwire"
)

// Attribute presence flags, draft-ietf-secsh-filexfer-02 §5.
const (
	attrFlagSize        = 0x00000001
	attrFlagUIDGID      = 0x00000002
	attrFlagPermissions = 0x00000004
	attrFlagACModTime   = 0x00000008
	attrFlagExtended    = 0x80000000
)

// ExtendedAttr is one extended type/data pair.
type ExtendedAttr struct {
	Type string
	Data string
}

// FileAttributes is the SFTP v3 ATTRS structure. Flags records which
// fields were present on the wire; absent fields are zero.
type FileAttributes struct {
	Flags       uint32
	Size        uint64
	UID         uint32
	GID         uint32
	Permissions uint32
	Atime       uint32
	Mtime       uint32
	Extended    []ExtendedAttr
}

func (a *FileAttributes) HasSize() bool        { return a.Flags&attrFlagSize != 0 }
func (a *FileAttributes) HasUIDGID() bool      { return a.Flags&attrFlagUIDGID != 0 }
func (a *FileAttributes) HasPermissions() bool { return a.Flags&attrFlagPermissions != 0 }
func (a *FileAttributes) HasTimes() bool       { return a.Flags&attrFlagACModTime != 0 }

// ModTime returns the modification time, or the zero time when absent.
func (a *FileAttributes) ModTime() time.Time {
	if !a.HasTimes() {
		return time.Time{}
	}
	return time.Unix(int64(a.Mtime), 0)
}

// Mode maps the POSIX permission bits to an fs.FileMode.
func (a *FileAttributes) Mode() fs.FileMode {
	mode := fs.FileMode(a.Permissions & 0o777)
	switch a.Permissions & 0xF000 {
	case 0x4000:
		mode |= fs.ModeDir
	case 0xA000:
		mode |= fs.ModeSymlink
	case 0x1000:
		mode |= fs.ModeNamedPipe
	case 0x2000:
		mode |= fs.ModeCharDevice | fs.ModeDevice
	case 0x6000:
		mode |= fs.ModeDevice
	case 0xC000:
		mode |= fs.ModeSocket
	}
	return mode
}

func (a *FileAttributes) IsDir() bool {
	return a.HasPermissions() && a.Permissions&0xF000 == 0x4000
}

// SetSize marks the size field present.
func (a *FileAttributes) SetSize(size uint64) {
	a.Flags |= attrFlagSize
	a.Size = size
}

// SetPermissions marks the permission field present.
func (a *FileAttributes) SetPermissions(perm uint32) {
	a.Flags |= attrFlagPermissions
	a.Permissions = perm
}

// SetTimes marks the atime/mtime pair present.
func (a *FileAttributes) SetTimes(atime, mtime time.Time) {
	a.Flags |= attrFlagACModTime
	a.Atime = uint32(atime.Unix())
	a.Mtime = uint32(mtime.Unix())
}

// parseFileAttributes decodes an ATTRS structure. Fields are read in
// wire order, gated by the flags header.
func parseFileAttributes(r *sshwire.Reader) (*FileAttributes, error) {
	flags, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
	}
	a := &FileAttributes{Flags: flags}
	if flags&attrFlagSize != 0 {
		if a.Size, err = r.ReadUint64(); err != nil {
			return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
		}
	}
	if flags&attrFlagUIDGID != 0 {
		if a.UID, err = r.ReadUint32(); err != nil {
			return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
		}
		if a.GID, err = r.ReadUint32(); err != nil {
			return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
		}
	}
	if flags&attrFlagPermissions != 0 {
		if a.Permissions, err = r.ReadUint32(); err != nil {
			return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
		}
	}
	if flags&attrFlagACModTime != 0 {
		if a.Atime, err = r.ReadUint32(); err != nil {
			return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
		}
		if a.Mtime, err = r.ReadUint32(); err != nil {
			return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
		}
	}
	if flags&attrFlagExtended != 0 {
		count, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
		}
		for i := uint32(0); i < count; i++ {
			typ, err := r.ReadString()
			if err != nil {
				return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
			}
			data, err := r.ReadString()
			if err != nil {
				return nil, fmt.Errorf("%w: short attributes", ErrProtocol)
			}
			a.Extended = append(a.Extended, ExtendedAttr{Type: string(typ), Data: string(data)})
		}
	}
	return a, nil
}

func (a *FileAttributes) marshal(w *sshwire.Writer) {
	flags := a.Flags
	if len(a.Extended) > 0 {
		flags |= attrFlagExtended
	}
	w.WriteUint32(flags)
	if flags&attrFlagSize != 0 {
		w.WriteUint64(a.Size)
	}
	if flags&attrFlagUIDGID != 0 {
		w.WriteUint32(a.UID)
		w.WriteUint32(a.GID)
	}
	if flags&attrFlagPermissions != 0 {
		w.WriteUint32(a.Permissions)
	}
	if flags&attrFlagACModTime != 0 {
		w.WriteUint32(a.Atime)
		w.WriteUint32(a.Mtime)
	}
	if flags&attrFlagExtended != 0 {
		w.WriteUint32(uint32(len(a.Extended)))
		for _, ext := range a.Extended {
			w.WriteString([]byte(ext.Type))
			w.WriteString([]byte(ext.Data))
		}
	}
}
