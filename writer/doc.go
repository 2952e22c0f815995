// Package writer implements the write session that multiplexes per-field
// byte streams into the packets of one compressed-vector binary section.
//
// A session is created with Open against a schema.Vector and a shared
// container. Write calls drive the bound field streams incrementally and emit
// data packets whenever the pending packet passes the target fill threshold;
// Close drains everything left, emits the mandatory index packet, and
// back-patches the section header that Open reserved.
//
// # Basic Usage
//
//	proto, _ := schema.NewPrototype([]schema.Field{
//	    {Path: "x", Type: format.TypeFloat},
//	    {Path: "y", Type: format.TypeFloat},
//	})
//	vector := schema.NewVector(proto)
//	cont := container.New()
//
//	w, err := writer.Open(vector, cont, []stream.Binding{
//	    {Path: "x", Values: xs},
//	    {Path: "y", Values: ys},
//	})
//	if err != nil {
//	    return err
//	}
//	defer w.Release()
//
//	if err := w.Write(len(xs)); err != nil {
//	    return err
//	}
//	return w.Close()
package writer
