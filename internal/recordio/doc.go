// Package recordio implements the dmlc RecordIO container framing used by
// MXNet's packed image datasets.
//
// A record is stored as a 4-byte magic word, a 4-byte length word whose top
// three bits carry a continuation flag, and the payload padded with zeros to a
// 4-byte boundary. Payloads that contain the magic word at an aligned position
// are split into parts so readers can always resynchronise on magic.
package recordio
