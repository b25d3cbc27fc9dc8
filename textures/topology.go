package textures

// Triangulate returns two triangles per grid cell. With a = i*segV+j,
// b = a+1, c = a+segV and d = c+1 the triangles are (a,b,d) and (a,d,c).
// The result has 6*(segU-1)*(segV-1) indices.
func Triangulate(segU, segV int) []uint32 {
	if segU < 2 || segV < 2 {
		return nil
	}
	indices := make([]uint32, 0, 6*(segU-1)*(segV-1))
	for i := 0; i < segU-1; i++ {
		for j := 0; j < segV-1; j++ {
			a := uint32(i*segV + j)
			b := a + 1
			c := a + uint32(segV)
			d := c + 1
			indices = append(indices, a, b, d, a, d, c)
		}
	}
	return indices
}

// GridLines returns every horizontal neighbour pair (i,j)-(i,j+1), then
// every vertical pair (i,j)-(i+1,j): segU*(segV-1) + segV*(segU-1) segments.
func GridLines(segU, segV int) [][2]uint32 {
	if segU < 1 || segV < 1 {
		return nil
	}
	lines := make([][2]uint32, 0, segU*(segV-1)+segV*(segU-1))
	for i := 0; i < segU; i++ {
		for j := 0; j < segV-1; j++ {
			a := uint32(i*segV + j)
			lines = append(lines, [2]uint32{a, a + 1})
		}
	}
	for j := 0; j < segV; j++ {
		for i := 0; i < segU-1; i++ {
			a := uint32(i*segV + j)
			lines = append(lines, [2]uint32{a, a + uint32(segV)})
		}
	}
	return lines
}

// UniqueEdges returns the undirected edges of a triangle list, each once,
// in the order they are first met and with their first-seen orientation.
func UniqueEdges(indices []uint32) [][2]uint32 {
	seen := make(map[[2]uint32]struct{}, len(indices))
	edges := make([][2]uint32, 0, len(indices)/2)

	add := func(a, b uint32) {
		key := [2]uint32{min(a, b), max(a, b)}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		edges = append(edges, [2]uint32{a, b})
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		add(a, b)
		add(b, c)
		add(c, a)
	}
	return edges
}
