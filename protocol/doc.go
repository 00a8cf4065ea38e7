// Package protocol implements the wire-level primitives of the TinyFrame
// framing protocol: checksum algorithms, big-endian field serialization,
// and the link configuration shared by both peers.
//
// # Frame Format
//
// A frame on the wire has the following layout:
//
//	[SOF][ID][LEN][TYPE][HEAD_CKSUM][PAYLOAD...][PLD_CKSUM]
//
// Where:
//   - SOF = optional start-of-frame marker (1 byte, typically 0x01)
//   - ID = frame identifier (1, 2 or 4 bytes, big-endian)
//   - LEN = payload length (1, 2 or 4 bytes, big-endian)
//   - TYPE = application message type (1, 2 or 4 bytes, big-endian)
//   - HEAD_CKSUM = checksum over [SOF][ID][LEN][TYPE] as on the wire
//   - PLD_CKSUM = checksum over the payload bytes only
//
// Both checksum fields are absent when the checksum kind is ChecksumNone.
// Field widths and the checksum kind are fixed per link by Config and must
// be identical on both peers.
//
// # Checksums
//
// Four integrity algorithms are supported:
//
//	ChecksumNone  - no integrity checking, zero-width fields
//	ChecksumXOR8  - inverted XOR of all bytes (1 byte)
//	ChecksumCRC16 - CRC-16 poly 0x8005, reflected, init 0 (2 bytes)
//	ChecksumCRC32 - CRC-32 poly 0xEDB88320, init/xorout 0xFFFFFFFF (4 bytes)
//
// All algorithms support incremental computation for byte-at-a-time
// parsing:
//
//	acc := kind.Begin()
//	acc = kind.Update(acc, data)
//	sum := kind.Final(acc)
//
// # Configuration
//
// Config carries every link parameter as a construction-time value.
// Validate rejects unusable combinations before an engine is built:
//
//	cfg := protocol.DefaultConfig()
//	cfg.Checksum = protocol.ChecksumCRC32
//	if err := cfg.Validate(); err != nil {
//	    // field widths, capacities or payload limits are out of range
//	}
package protocol
