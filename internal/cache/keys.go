package cache

// Collection keys.
const (
	PostsKey    = "posts"
	UsersKey    = "users"
	CommentsKey = "comments"
)

func PostKey(id string) string {
	return "posts?id=" + id
}

func UserKey(id string) string {
	return "users?id=" + id
}

func CommentKey(id string) string {
	return "comments?id=" + id
}

// PostCommentsKey holds the top-level comments of a post.
func PostCommentsKey(postID string) string {
	return "postComments?id=" + postID
}

// CommentRepliesKey holds the replies of a comment.
func CommentRepliesKey(commentID string) string {
	return "commentReplies?id=" + commentID
}

func TotalCommentRepliesKey(commentID string) string {
	return "totalCommentReplies?id=" + commentID
}

// LikesKey holds the like count of a post, comment or reply.
func LikesKey(targetID string) string {
	return "like?id=" + targetID
}

func UserPostsKey(userID string) string {
	return "userPosts?profile=" + userID
}

func FollowingKey(userID string) string {
	return "following?id=" + userID
}

func FollowersKey(userID string) string {
	return "followers?id=" + userID
}
