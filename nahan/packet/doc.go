// Package packet types the payloads carried inside a tag-cipher stream.
//
//	message:  [0x01][serialized envelope]
//	identity: [0x02][deflate("ID|" + name + "|" + base64PublicKey)]
package packet
