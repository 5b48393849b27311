// Package pixel hides a length-prefixed payload in the two least significant
// bits of each color channel of an image. Six bits fit per pixel; alpha is
// left as is. Carriers must be stored losslessly, which is why EncodePNG is
// the only writer offered.
package pixel
