package resumable

// PlanChunks returns the number of chunks a file of totalSize bytes is split into.
// chunkSize must be positive.
func PlanChunks(totalSize, chunkSize int64, mode ChunkCountMode) int {
	if mode == ChunkCountExact {
		if totalSize <= 0 {
			return 1
		}
		return int((totalSize + chunkSize - 1) / chunkSize)
	}

	// Existing servers expect the extra chunk on exact multiples.
	return int(totalSize/chunkSize) + 1
}

// ChunkLength returns how many bytes of a totalSize file belong to the 1-based chunk index.
func ChunkLength(index int, totalSize, chunkSize int64) int64 {
	offset := int64(index-1) * chunkSize
	remaining := totalSize - offset
	if remaining <= 0 {
		return 0
	}
	if remaining < chunkSize {
		return remaining
	}
	return chunkSize
}
