package cellfx

// mergeSort stably sorts items in place using buf as scratch space and
// returns the (possibly grown) scratch buffer for reuse. Bottom-up merge
// sort: zero allocations once buf reaches the high-water mark.
func mergeSort[T any](items, buf []T, lessOrEqual func(a, b T) bool) []T {
	n := len(items)
	if n <= 1 {
		return buf
	}
	if cap(buf) < n {
		buf = make([]T, n)
	}
	buf = buf[:n]

	a := items
	b := buf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi, lessOrEqual)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(items, a)
	}
	clear(buf)
	return buf
}

// mergeRun merges the sorted runs src[lo:mid] and src[mid:hi] into dst.
func mergeRun[T any](src, dst []T, lo, mid, hi int, lessOrEqual func(a, b T) bool) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if lessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
