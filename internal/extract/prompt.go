package extract

import "fmt"

// BuildPrompt returns the instruction sent to the oracle alongside a batch
// of n images.
func BuildPrompt(n int) string {
	return fmt.Sprintf(`You are a photo geolocation analyst. You will receive %d image(s). For EACH image, determine where and when the photo was taken.

INSTRUCTIONS:
1. First look for coordinates, place names, or timestamps printed on the image itself (GPS watermarks, camera overlays, street signs). Prefer these over visual estimation.
2. If nothing is printed, estimate the location from depicted landmarks, architecture, vegetation, signage language, and other visual clues.
3. Report latitude and longitude in decimal degrees. Use negative latitude for the southern hemisphere and negative longitude for the western hemisphere.
4. Set "foundCoordinates" to true only when coordinates were explicitly visible in the image. Set it to false when you estimated them.
5. If the location is truly undeterminable, still describe the scene in "address" and leave latitude and longitude at 0.
6. Report the capture date as YYYY-MM-DD and the time as 24-hour HH:mm. Use empty strings when they cannot be determined.

OUTPUT FORMAT:
Respond with ONLY a JSON array of exactly %d object(s), one per image, in the same order the images were provided:

[
  {
    "address": "Eiffel Tower, Paris, France",
    "latitude": 48.858370,
    "longitude": 2.294481,
    "date": "2019-06-21",
    "time": "18:45",
    "foundCoordinates": false
  }
]

Do not include any commentary, explanations, or markdown formatting around the JSON.`, n, n)
}
