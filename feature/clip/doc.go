// Package clip computes an embedding vector for every image inside the zip
// archives below a directory.
//
// Each archive yields <name>_clip_vectors.json with one object per image:
// {zipfile, filename, file_hash, clip_model, clip_vector}. Vectors are L2
// normalized. Image bytes are handed to the embedder straight from memory.
//
// Images that Go can decode (gif, jpeg, png, bmp, tiff, webp) are checked
// before the embedder is called; PPM and PGM go to the embedder unchecked.
// Undecodable images are skipped and logged.
package clip
