package dataset

// GroupMeanByArea returns the mean waste_kg of every distinct area.
func GroupMeanByArea(records []WasteRecord) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, rec := range records {
		sums[rec.Area] += rec.WasteKG
		counts[rec.Area]++
	}

	means := make(map[string]float64, len(sums))
	for area, total := range sums {
		means[area] = total / float64(counts[area])
	}
	return means
}

// GroupMeanByDayName returns the mean waste_kg per day in dayOrder. Days
// without records keep a nil Mean.
func GroupMeanByDayName(records []WasteRecord, dayOrder []string) []DayMean {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, rec := range records {
		sums[rec.DayName] += rec.WasteKG
		counts[rec.DayName]++
	}

	result := make([]DayMean, 0, len(dayOrder))
	for _, day := range dayOrder {
		dm := DayMean{Day: day}
		if n := counts[day]; n > 0 {
			mean := sums[day] / float64(n)
			dm.Mean = &mean
		}
		result = append(result, dm)
	}
	return result
}

// FilterByArea returns the records of one area in dataset order.
func FilterByArea(records []WasteRecord, area string) []WasteRecord {
	var filtered []WasteRecord
	for _, rec := range records {
		if rec.Area == area {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// TailWindow returns the last n records. n larger than the dataset returns
// everything.
func TailWindow(records []WasteRecord, n int) []WasteRecord {
	if n <= 0 {
		return []WasteRecord{}
	}
	if n > len(records) {
		n = len(records)
	}

	result := make([]WasteRecord, n)
	copy(result, records[len(records)-n:])
	return result
}

// Areas lists the distinct areas in order of first appearance.
func Areas(records []WasteRecord) []string {
	seen := make(map[string]bool)
	var areas []string
	for _, rec := range records {
		if !seen[rec.Area] {
			seen[rec.Area] = true
			areas = append(areas, rec.Area)
		}
	}
	return areas
}

// MeanWaste averages waste_kg; ok is false for no records.
func MeanWaste(records []WasteRecord) (float64, bool) {
	return mean(records, func(r WasteRecord) float64 { return r.WasteKG })
}

// MeanPopulation averages population; ok is false for no records.
func MeanPopulation(records []WasteRecord) (float64, bool) {
	return mean(records, func(r WasteRecord) float64 { return float64(r.Population) })
}

// OverflowRate is the fraction of days on which bins overflowed.
func OverflowRate(records []WasteRecord) (float64, bool) {
	return mean(records, func(r WasteRecord) float64 {
		if r.Overflow {
			return 1
		}
		return 0
	})
}

// LatestPopulation returns the population of the last record.
func LatestPopulation(records []WasteRecord) (int, bool) {
	if len(records) == 0 {
		return 0, false
	}
	return records[len(records)-1].Population, true
}

func mean(records []WasteRecord, value func(WasteRecord) float64) (float64, bool) {
	if len(records) == 0 {
		return 0, false
	}

	total := 0.0
	for _, rec := range records {
		total += value(rec)
	}
	return total / float64(len(records)), true
}
