// Package embedding provides the image embedding capability used by the clip
// pipeline.
//
// An Embedder turns raw image bytes into a fixed length float vector or
// reports a DecodeError when the bytes are not an image it can read. The
// pipeline treats DecodeError as a per-file failure and keeps going.
//
// HTTPEmbedder talks to an inference service: the image bytes are posted as
// the request body, the model name travels in the X-Model header and the
// service answers with {"vector": [...]}. Status 415 and 422 mean the image
// could not be decoded.
package embedding
