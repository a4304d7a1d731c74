package wire

import (
	"fmt"

	"zapc/internal/diag"
	"zapc/internal/ir"
	"zapc/internal/layout"
	"zapc/internal/source"
)

// CheckEvolution compares a fresh compilation against the previously
// emitted descriptor. Additive changes pass: new declarations, and new
// members whose ordinals are strictly greater than anything the old
// schema used. Any change to an existing ordinal's slot kind or width, or
// removal of an existing ordinal, is incompatible.
//
// Descriptor records carry no source spans; diagnostics anchor at the
// zero span and name the declaration and member instead.
func CheckEvolution(old, cur *Descriptor, reporter diag.Reporter) bool {
	ok := true
	report := func(format string, args ...any) {
		ok = false
		diag.Error(reporter, diag.LayIncompatibleEvolution, source.Span{},
			fmt.Sprintf(format, args...))
	}

	for i := range old.Decls {
		prev := &old.Decls[i]
		next := cur.Decl(prev.Name)
		if next == nil {
			report("declaration %q was removed", prev.Name)
			continue
		}
		if next.Kind != prev.Kind {
			report("%q changed from %s to %s", prev.Name, prev.Kind, next.Kind)
			continue
		}
		switch prev.Kind {
		case ir.KindStruct:
			checkStruct(prev, next, report)
		case ir.KindEnum:
			checkEnum(prev, next, report)
		case ir.KindInterface:
			checkInterface(prev, next, report)
		}
	}
	return ok
}

func checkStruct(prev, next *DeclRecord, report func(string, ...any)) {
	nextByOrdinal := make(map[uint16]*MemberRecord, len(next.Members))
	for i := range next.Members {
		nextByOrdinal[next.Members[i].Ordinal] = &next.Members[i]
	}

	maxOld := -1
	for i := range prev.Members {
		pm := &prev.Members[i]
		if int(pm.Ordinal) > maxOld {
			maxOld = int(pm.Ordinal)
		}
		nm, found := nextByOrdinal[pm.Ordinal]
		if !found {
			report("%s.%s: ordinal @%d was removed", prev.Name, pm.Name, pm.Ordinal)
			continue
		}
		if nm.Region != pm.Region {
			report("%s.%s: ordinal @%d moved from the %s region to the %s region",
				prev.Name, pm.Name, pm.Ordinal,
				layout.Region(pm.Region), layout.Region(nm.Region))
			continue
		}
		if nm.Width != pm.Width {
			report("%s.%s: ordinal @%d changed width from %d to %d bits",
				prev.Name, pm.Name, pm.Ordinal, pm.Width, nm.Width)
			continue
		}
		if nm.Offset != pm.Offset {
			report("%s.%s: ordinal @%d moved from offset %d to %d",
				prev.Name, pm.Name, pm.Ordinal, pm.Offset, nm.Offset)
		}
	}

	// New members may only append past the old ordinal range.
	for i := range next.Members {
		nm := &next.Members[i]
		if int(nm.Ordinal) <= maxOld && !hasOrdinal(prev.Members, nm.Ordinal) {
			report("%s.%s: new member reuses retired ordinal @%d",
				next.Name, nm.Name, nm.Ordinal)
		}
	}
}

func hasOrdinal(members []MemberRecord, ordinal uint16) bool {
	for i := range members {
		if members[i].Ordinal == ordinal {
			return true
		}
	}
	return false
}

func checkEnum(prev, next *DeclRecord, report func(string, ...any)) {
	if len(next.Variants) < len(prev.Variants) {
		report("enum %q dropped variants", prev.Name)
		return
	}
	// Variant ordinals are positional, so the old list must be a prefix.
	for i, v := range prev.Variants {
		if next.Variants[i] != v {
			report("enum %q: variant %d renamed from %q to %q",
				prev.Name, i, v, next.Variants[i])
		}
	}
}

func checkInterface(prev, next *DeclRecord, report func(string, ...any)) {
	nextByOrdinal := make(map[uint16]string, len(next.Methods))
	for _, m := range next.Methods {
		nextByOrdinal[m.Ordinal] = m.Name
	}
	for _, m := range prev.Methods {
		if _, found := nextByOrdinal[m.Ordinal]; !found {
			report("%s.%s: method ordinal @%d was removed", prev.Name, m.Name, m.Ordinal)
		}
	}
}
