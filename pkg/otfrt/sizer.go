package otfrt

// Sizer is implemented by every compile-module value so that a table's
// owned form can compute its own serialized byte length — needed before an
// enclosing table can lay out its own offsets.
type Sizer interface {
	ComputeSize() int
}

// Writer is implemented by every compile-module value that can serialize
// itself into a byte sink. AppendTo mirrors the Encode* free functions'
// append-and-return shape so an owning table can lay out its children back
// to back without an intermediate allocation per child.
type Writer interface {
	AppendTo(dst []byte) []byte
}
