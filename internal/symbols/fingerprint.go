package symbols

import (
	"syster/internal/memo"
	"syster/internal/source"
)

// Fingerprint covers every field a consumer can observe, so equal
// fingerprints mean downstream queries may keep their cached results.
// Scope declaration maps are derived from Defs and not hashed.
func (fs *FileSymbols) Fingerprint() uint64 {
	d := memo.NewDigest()
	d.Uint32(uint32(fs.File))

	d.Uint64(uint64(len(fs.Defs)))
	for i := range fs.Defs {
		def := &fs.Defs[i]
		d.Uint32(uint32(def.LocalID)).Uint32(uint32(def.Name)).Uint32(uint32(def.QName))
		d.Byte(byte(def.Kind)).Byte(byte(def.Vis)).Byte(byte(def.Flags))
		d.String(def.Doc)
		hashSpan(d, def.NameSpan)
		hashSpan(d, def.Span)
		d.Uint32(uint32(def.Owner)).Uint32(uint32(def.Scope)).Uint32(uint32(def.Body))
		d.Uint32(uint32(def.Type))
		d.Uint64(uint64(len(def.Specializes)))
		for _, r := range def.Specializes {
			d.Uint32(uint32(r))
		}
		d.Uint64(uint64(len(def.Subsets)))
		for _, r := range def.Subsets {
			d.Uint32(uint32(r))
		}
	}

	d.Uint64(uint64(len(fs.Imports)))
	for i := range fs.Imports {
		im := &fs.Imports[i]
		d.Uint32(uint32(im.Target)).Uint32(uint32(im.Path)).Uint32(uint32(im.Owner))
		d.Bool(im.Wildcard).Byte(byte(im.Vis)).Uint32(uint32(im.Scope))
		hashSpan(d, im.Span)
	}

	d.Uint64(uint64(len(fs.Aliases)))
	for i := range fs.Aliases {
		al := &fs.Aliases[i]
		d.Uint32(uint32(al.Name)).Uint32(uint32(al.QName)).Uint32(uint32(al.Owner))
		d.Uint32(uint32(al.Target)).Uint32(uint32(al.TargetPath))
		d.Byte(byte(al.Vis)).Uint32(uint32(al.Scope))
		hashSpan(d, al.NameSpan)
		hashSpan(d, al.Span)
	}

	d.Uint64(uint64(len(fs.Refs)))
	for i := range fs.Refs {
		site := &fs.Refs[i]
		d.Uint32(uint32(site.Ref)).Byte(byte(site.Kind))
		d.Uint32(uint32(site.Scope)).Uint32(uint32(site.Owner)).Byte(byte(site.Context))
	}

	d.Uint64(uint64(len(fs.Scopes)))
	for i := 1; i < len(fs.Scopes); i++ {
		sc := &fs.Scopes[i]
		d.Uint32(uint32(sc.Parent)).Uint32(uint32(sc.Owner))
		hashSpan(d, sc.Span)
		d.Uint64(uint64(len(sc.Imports)))
		for _, im := range sc.Imports {
			d.Uint32(uint32(im))
		}
		d.Uint64(uint64(len(sc.Aliases)))
		for _, al := range sc.Aliases {
			d.Uint32(uint32(al))
		}
	}

	return d.Sum()
}

func hashSpan(d *memo.Digest, span source.Span) {
	d.Uint32(span.Start).Uint32(span.End)
}
