// Package classfile reads just enough of a compiled JVM class file's binary
// header to recover its name and method signatures. Nothing is loaded or
// verified beyond that.
package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

const magic = 0xCAFEBABE

// Method is one entry of a class's method table.
type Method struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
}

// Class is the scanned header of one class file.
type Class struct {
	// Name is the fully qualified, dot-separated class name.
	Name    string
	Methods []Method
}

// SimpleName is the class name without its package.
func (c *Class) SimpleName() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// HasMethod reports whether the class declares a method with the given name
// and JVM descriptor.
func (c *Class) HasMethod(name, descriptor string) bool {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return true
		}
	}
	return false
}

// constant pool tags from the class file format.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) u1() uint8 {
	var v uint8
	r.read(&v)
	return v
}

func (r *reader) u2() uint16 {
	var v uint16
	r.read(&v)
	return v
}

func (r *reader) u4() uint32 {
	var v uint32
	r.read(&v)
	return v
}

func (r *reader) read(v any) {
	if r.err != nil {
		return
	}
	r.err = binary.Read(r.r, binary.BigEndian, v)
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) skip(n int) {
	if r.err != nil {
		return
	}
	_, r.err = io.CopyN(io.Discard, r.r, int64(n))
}

// Parse scans a class file's header: magic, constant pool, class name and
// method table. Field and method bodies are skipped.
func Parse(src io.Reader) (*Class, error) {
	r := &reader{r: src}

	if m := r.u4(); r.err == nil && m != magic {
		return nil, fmt.Errorf("not a class file: bad magic 0x%08X", m)
	}
	r.u2() // minor
	r.u2() // major

	cpCount := int(r.u2())
	utf8s := make(map[int]string)
	classRefs := make(map[int]int)

	for i := 1; i < cpCount && r.err == nil; i++ {
		switch tag := r.u1(); tag {
		case tagUtf8:
			n := int(r.u2())
			utf8s[i] = string(r.bytes(n))
		case tagInteger, tagFloat:
			r.skip(4)
		case tagLong, tagDouble:
			r.skip(8)
			i++ // long and double take two constant pool slots
		case tagClass:
			classRefs[i] = int(r.u2())
		case tagString, tagMethodType, tagModule, tagPackage:
			r.skip(2)
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			r.skip(4)
		case tagMethodHandle:
			r.skip(3)
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d", tag)
		}
	}

	r.u2() // access flags
	thisClass := int(r.u2())
	r.u2() // super class

	interfaceCount := int(r.u2())
	r.skip(2 * interfaceCount)

	// Fields: only attribute lengths matter, everything is skipped.
	fieldCount := int(r.u2())
	for i := 0; i < fieldCount && r.err == nil; i++ {
		r.skip(6) // access, name, descriptor
		skipAttributes(r)
	}

	methodCount := int(r.u2())
	methods := make([]Method, 0, methodCount)
	for i := 0; i < methodCount && r.err == nil; i++ {
		m := Method{
			AccessFlags: r.u2(),
			Name:        utf8s[int(r.u2())],
			Descriptor:  utf8s[int(r.u2())],
		}
		skipAttributes(r)
		methods = append(methods, m)
	}

	if r.err != nil {
		return nil, fmt.Errorf("truncated class file: %w", r.err)
	}

	nameIdx, ok := classRefs[thisClass]
	if !ok {
		return nil, fmt.Errorf("class file has no valid this_class entry")
	}
	name, ok := utf8s[nameIdx]
	if !ok {
		return nil, fmt.Errorf("class file has no name constant")
	}

	return &Class{
		Name:    strings.ReplaceAll(name, "/", "."),
		Methods: methods,
	}, nil
}

func skipAttributes(r *reader) {
	count := int(r.u2())
	for i := 0; i < count && r.err == nil; i++ {
		r.u2() // attribute name
		r.skip(int(r.u4()))
	}
}
